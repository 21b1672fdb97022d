package persist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/ndrandal/hedge-simulator/internal/engine"
)

// ErrNotFound is returned when a named preset does not exist.
var ErrNotFound = errors.New("preset not found")

// Preset is a saved simulation configuration under a user-chosen name.
type Preset struct {
	Name        string                  `json:"name"`
	Description string                  `json:"description,omitempty"`
	Config      engine.SimulationConfig `json:"config"`
	UpdatedAt   time.Time               `json:"updatedAt"`
}

// PresetStore abstracts named-preset persistence.
type PresetStore interface {
	SavePreset(ctx context.Context, p Preset) error
	GetPreset(ctx context.Context, name string) (Preset, error)
	ListPresets(ctx context.Context) ([]Preset, error)
	DeletePreset(ctx context.Context, name string) error
}

// presetDoc is the flat MongoDB document layout for a preset.
type presetDoc struct {
	Name                     string    `bson:"name"`
	Description              string    `bson:"description"`
	MarketVolatility         float64   `bson:"market_volatility"`
	TotalDays                int       `bson:"total_days"`
	HedgeEnabled             bool      `bson:"hedge_enabled"`
	HedgeRatio               float64   `bson:"hedge_ratio"`
	HedgeCostAnnual          float64   `bson:"hedge_cost_annual"`
	HedgeEffectiveness       float64   `bson:"hedge_effectiveness"`
	RebalancingFrequencyDays int       `bson:"rebalancing_frequency_days"`
	UpdatedAt                time.Time `bson:"updated_at"`
}

func docFromPreset(p Preset) presetDoc {
	return presetDoc{
		Name:                     p.Name,
		Description:              p.Description,
		MarketVolatility:         p.Config.MarketVolatility,
		TotalDays:                p.Config.TotalDays,
		HedgeEnabled:             p.Config.HedgeEnabled,
		HedgeRatio:               p.Config.HedgeRatio,
		HedgeCostAnnual:          p.Config.HedgeCostAnnual,
		HedgeEffectiveness:       p.Config.HedgeEffectiveness,
		RebalancingFrequencyDays: p.Config.RebalancingFrequencyDays,
		UpdatedAt:                p.UpdatedAt,
	}
}

func presetFromDoc(d presetDoc) Preset {
	return Preset{
		Name:        d.Name,
		Description: d.Description,
		Config: engine.SimulationConfig{
			MarketVolatility:         d.MarketVolatility,
			TotalDays:                d.TotalDays,
			HedgeEnabled:             d.HedgeEnabled,
			HedgeRatio:               d.HedgeRatio,
			HedgeCostAnnual:          d.HedgeCostAnnual,
			HedgeEffectiveness:       d.HedgeEffectiveness,
			RebalancingFrequencyDays: d.RebalancingFrequencyDays,
		},
		UpdatedAt: d.UpdatedAt,
	}
}

// MongoPresetStore implements PresetStore using a mongo.Database.
type MongoPresetStore struct {
	db *mongo.Database
}

// NewMongoPresetStore creates a new MongoPresetStore.
func NewMongoPresetStore(db *mongo.Database) *MongoPresetStore {
	return &MongoPresetStore{db: db}
}

// SavePreset upserts a preset by name, stamping the update time.
func (s *MongoPresetStore) SavePreset(ctx context.Context, p Preset) error {
	p.UpdatedAt = time.Now().UTC()
	doc := docFromPreset(p)

	filter := bson.M{"name": p.Name}
	update := bson.M{"$set": doc}
	opts := options.UpdateOne().SetUpsert(true)
	if _, err := s.db.Collection("presets").UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("upsert preset %s: %w", p.Name, err)
	}
	return nil
}

// GetPreset returns the preset with the given name.
func (s *MongoPresetStore) GetPreset(ctx context.Context, name string) (Preset, error) {
	var doc presetDoc
	err := s.db.Collection("presets").FindOne(ctx, bson.M{"name": name}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Preset{}, ErrNotFound
	}
	if err != nil {
		return Preset{}, fmt.Errorf("get preset %s: %w", name, err)
	}
	return presetFromDoc(doc), nil
}

// ListPresets returns all presets sorted by name.
func (s *MongoPresetStore) ListPresets(ctx context.Context) ([]Preset, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := s.db.Collection("presets").Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list presets: %w", err)
	}
	defer cursor.Close(ctx)

	docs := []presetDoc{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode presets: %w", err)
	}

	presets := make([]Preset, len(docs))
	for i, d := range docs {
		presets[i] = presetFromDoc(d)
	}
	return presets, nil
}

// DeletePreset removes the preset with the given name.
func (s *MongoPresetStore) DeletePreset(ctx context.Context, name string) error {
	res, err := s.db.Collection("presets").DeleteOne(ctx, bson.M{"name": name})
	if err != nil {
		return fmt.Errorf("delete preset %s: %w", name, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
