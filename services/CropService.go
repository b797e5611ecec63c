package services

import (
	"context"
	_ "embed"
	"fmt"
	"strconv"
	"time"

	"farmFresh/entities"
	"farmFresh/models"
	"farmFresh/notify"
	"farmFresh/repository"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed data/crops.yaml
var cropGuideYAML []byte

type cropGuide struct {
	Crops    []cropRule `yaml:"crops"`
	Fallback cropRule   `yaml:"fallback"`
}

type cropRule struct {
	Name        string                                     `yaml:"name"`
	Description string                                     `yaml:"description"`
	PHMin       float64                                    `yaml:"phMin"`
	PHMax       float64                                    `yaml:"phMax"`
	Soils       map[entities.SoilType]entities.Suitability `yaml:"soils"`
	Suitability entities.Suitability                       `yaml:"suitability"`
	Weather     struct {
		Temperature string `yaml:"temperature"`
		Rainfall    string `yaml:"rainfall"`
		Sunlight    string `yaml:"sunlight"`
		Humidity    string `yaml:"humidity"`
	} `yaml:"weatherConditions"`
	Fertilizers []struct {
		Type        string `yaml:"type"`
		NPKRatio    string `yaml:"npkRatio"`
		Application string `yaml:"application"`
	} `yaml:"fertilizers"`
	Pesticides []struct {
		Type        string `yaml:"type"`
		TargetPests string `yaml:"targetPests"`
		Application string `yaml:"application"`
	} `yaml:"pesticides"`
}

func (r cropRule) recommendation(suit entities.Suitability) entities.CropRecommendation {
	rec := entities.CropRecommendation{
		Name:        r.Name,
		Description: r.Description,
		Suitability: suit,
		Weather: entities.WeatherConditions{
			Temperature: r.Weather.Temperature,
			Rainfall:    r.Weather.Rainfall,
			Sunlight:    r.Weather.Sunlight,
			Humidity:    r.Weather.Humidity,
		},
		Fertilizers: make([]entities.Fertilizer, 0, len(r.Fertilizers)),
		Pesticides:  make([]entities.Pesticide, 0, len(r.Pesticides)),
	}
	for _, f := range r.Fertilizers {
		rec.Fertilizers = append(rec.Fertilizers, entities.Fertilizer{Type: f.Type, NPKRatio: f.NPKRatio, Application: f.Application})
	}
	for _, p := range r.Pesticides {
		rec.Pesticides = append(rec.Pesticides, entities.Pesticide{Type: p.Type, TargetPests: p.TargetPests, Application: p.Application})
	}
	return rec
}

func parseCropGuide(data []byte) (cropGuide, error) {
	var g cropGuide
	if err := yaml.Unmarshal(data, &g); err != nil {
		return g, fmt.Errorf("parse crop guide: %w", err)
	}
	for _, c := range g.Crops {
		if c.PHMin > c.PHMax {
			return g, fmt.Errorf("crop %s: phMin above phMax", c.Name)
		}
		for soil := range c.Soils {
			if !soil.Valid() {
				return g, fmt.Errorf("crop %s: unknown soil type %q", c.Name, soil)
			}
		}
	}
	if g.Fallback.Name == "" {
		return g, fmt.Errorf("crop guide has no fallback")
	}
	return g, nil
}

var guide = mustParseCropGuide(cropGuideYAML)

func mustParseCropGuide(data []byte) cropGuide {
	g, err := parseCropGuide(data)
	if err != nil {
		panic(err)
	}
	return g
}

// Recommend lists every crop whose soil type and pH range match the sample,
// in guide order. It never returns an empty list.
func Recommend(soil entities.SoilData) []entities.CropRecommendation {
	recs := []entities.CropRecommendation{}
	for _, c := range guide.Crops {
		suit, ok := c.Soils[soil.SoilType]
		if !ok || soil.PH < c.PHMin || soil.PH > c.PHMax {
			continue
		}
		recs = append(recs, c.recommendation(suit))
	}
	if len(recs) == 0 {
		recs = append(recs, guide.Fallback.recommendation(guide.Fallback.Suitability))
	}
	return recs
}

// Nutrient readings the soil form does not ask for.
const (
	defaultNitrogen      = 10
	defaultPhosphorus    = 10
	defaultPotassium     = 10
	defaultMoisture      = 5
	defaultOrganicMatter = 2
)

type CropService struct {
	fr  repository.FarmerRepository
	n   notify.Notifier
	log *zap.Logger
	now func() time.Time
}

func NewCropService(farmerRepo repository.FarmerRepository, n notify.Notifier, log *zap.Logger) CropService {
	return CropService{
		fr:  farmerRepo,
		n:   n,
		log: log,
		now: time.Now,
	}
}

// AnalyzeSoil records a soil sample for the farmer and returns it with its
// crop recommendations. The result replaces any earlier analysis.
func (cs *CropService) AnalyzeSoil(ctx context.Context, farmerId string, form models.SoilForm) (analysis entities.SoilAnalysis, err error) {
	farmName, soilType, location, err := validateSoilForm(form)
	if err != nil {
		return
	}
	now := cs.now()
	soil := entities.SoilData{
		Id:            strconv.FormatInt(now.UnixMilli(), 10),
		FarmerId:      farmerId,
		FarmName:      farmName,
		SoilType:      soilType,
		PH:            form.PH,
		Nitrogen:      defaultNitrogen,
		Phosphorus:    defaultPhosphorus,
		Potassium:     defaultPotassium,
		Moisture:      defaultMoisture,
		OrganicMatter: defaultOrganicMatter,
		Location:      location,
		Date:          now.UTC(),
	}
	analysis = entities.SoilAnalysis{Soil: soil, Recommendations: Recommend(soil)}
	if err = cs.fr.SetSoilAnalysis(ctx, farmerId, analysis); err != nil {
		return
	}
	cs.log.Info("soil analyzed",
		zap.String("farmer", farmerId),
		zap.String("soilType", string(soilType)),
		zap.Float64("ph", form.PH),
		zap.Int("recommendations", len(analysis.Recommendations)))
	cs.n.Notify(ctx, notify.Success("Soil data analyzed successfully"))
	return
}

func (cs *CropService) LatestAnalysis(ctx context.Context, farmerId string) (analysis entities.SoilAnalysis, exists bool, err error) {
	return cs.fr.GetSoilAnalysis(ctx, farmerId)
}
