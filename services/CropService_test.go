package services

import (
	"context"
	"testing"
	"time"

	"farmFresh/entities"
	"farmFresh/models"
	"farmFresh/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type cropPick struct {
	Name        string
	Suitability entities.Suitability
}

func picks(recs []entities.CropRecommendation) []cropPick {
	out := make([]cropPick, 0, len(recs))
	for _, r := range recs {
		out = append(out, cropPick{r.Name, r.Suitability})
	}
	return out
}

func TestRecommend(t *testing.T) {
	tests := []struct {
		soil entities.SoilType
		ph   float64
		want []cropPick
	}{
		{entities.SoilLoam, 6.5, []cropPick{{"Corn", "high"}, {"Soybeans", "high"}, {"Wheat", "medium"}}},
		{entities.SoilLoam, 7.5, []cropPick{{"Corn", "high"}, {"Wheat", "medium"}}},
		{entities.SoilLoam, 5.5, []cropPick{{"Soybeans", "high"}}},
		{entities.SoilSilt, 6.0, []cropPick{{"Soybeans", "medium"}}},
		{entities.SoilSandy, 5.0, []cropPick{{"Sweet Potatoes", "high"}}},
		{entities.SoilSandy, 6.6, []cropPick{{"General Crops", "medium"}}},
		{entities.SoilClay, 6.0, []cropPick{{"Wheat", "high"}}},
		{entities.SoilPeat, 6.5, []cropPick{{"General Crops", "medium"}}},
		{entities.SoilChalk, 14, []cropPick{{"General Crops", "medium"}}},
	}
	for _, tt := range tests {
		t.Run(string(tt.soil), func(t *testing.T) {
			got := Recommend(entities.SoilData{SoilType: tt.soil, PH: tt.ph})
			assert.Equal(t, tt.want, picks(got))
		})
	}
}

func TestRecommend_Details(t *testing.T) {
	recs := Recommend(entities.SoilData{SoilType: entities.SoilLoam, PH: 6.8})
	require.NotEmpty(t, recs)
	corn := recs[0]
	assert.Equal(t, "20-30°C", corn.Weather.Temperature)
	require.Len(t, corn.Fertilizers, 2)
	assert.Equal(t, "46-0-0 (Urea)", corn.Fertilizers[1].NPKRatio)
	require.Len(t, corn.Pesticides, 1)
	assert.Equal(t, "Corn borers, armyworms", corn.Pesticides[0].TargetPests)
}

func TestParseCropGuide_Rejects(t *testing.T) {
	_, err := parseCropGuide([]byte("crops:\n  - name: X\n    phMin: 7\n    phMax: 6\nfallback:\n  name: F\n"))
	assert.Error(t, err)
	_, err = parseCropGuide([]byte("crops:\n  - name: X\n    soils:\n      lava: high\nfallback:\n  name: F\n"))
	assert.Error(t, err)
	_, err = parseCropGuide([]byte("crops: []\n"))
	assert.Error(t, err)
}

func TestCropService_AnalyzeSoil(t *testing.T) {
	fr := newFakeFarmerRepo()
	cs := NewCropService(fr, testNotifier(), zap.NewNop())
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	cs.now = func() time.Time { return at }
	ctx := notify.Collect(context.Background())

	a, err := cs.AnalyzeSoil(ctx, "2", models.SoilForm{FarmName: " Hill Farm ", SoilType: "Loam", PH: 6.5, Location: "Valley"})
	require.NoError(t, err)

	assert.Equal(t, entities.SoilData{
		Id:            "1717243200000",
		FarmerId:      "2",
		FarmName:      "Hill Farm",
		SoilType:      entities.SoilLoam,
		PH:            6.5,
		Nitrogen:      10,
		Phosphorus:    10,
		Potassium:     10,
		Moisture:      5,
		OrganicMatter: 2,
		Location:      "Valley",
		Date:          at,
	}, a.Soil)
	assert.Len(t, a.Recommendations, 3)
	assert.Equal(t, []entities.Notification{
		{Level: entities.LevelSuccess, Message: "Soil data analyzed successfully"},
	}, notify.Collected(ctx))

	latest, ok, err := cs.LatestAnalysis(ctx, "2")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, a, latest)
}

func TestCropService_Validation(t *testing.T) {
	cs := NewCropService(newFakeFarmerRepo(), testNotifier(), zap.NewNop())
	valid := models.SoilForm{FarmName: "Farm", SoilType: "clay", PH: 7, Location: "Here"}

	tests := []struct {
		name  string
		edit  func(*models.SoilForm)
		field string
	}{
		{"short farm name", func(f *models.SoilForm) { f.FarmName = "F" }, "farmName"},
		{"missing soil type", func(f *models.SoilForm) { f.SoilType = "" }, "soilType"},
		{"unknown soil type", func(f *models.SoilForm) { f.SoilType = "gravel" }, "soilType"},
		{"negative ph", func(f *models.SoilForm) { f.PH = -0.1 }, "ph"},
		{"ph above 14", func(f *models.SoilForm) { f.PH = 14.1 }, "ph"},
		{"short location", func(f *models.SoilForm) { f.Location = " x " }, "location"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := valid
			tt.edit(&form)
			_, err := cs.AnalyzeSoil(context.Background(), "2", form)
			var verr *models.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
			assert.ErrorIs(t, err, models.ErrBadRequest)
		})
	}

	for _, ph := range []float64{0, 14} {
		form := valid
		form.PH = ph
		_, err := cs.AnalyzeSoil(context.Background(), "2", form)
		assert.NoError(t, err, "ph %v", ph)
	}
}
