package churnservice

import (
	"context"
	"fmt"

	"github.com/Leopold1975/churnguard/internal/churnguard/domain/models"
	"github.com/Leopold1975/churnguard/pkg/logger"
)

type Preprocessor interface {
	Transform(models.FeatureRecord) ([]float64, error)
}

type Classifier interface {
	Predict([]float64) (int, error)
}

// Repository is the collection batch prediction reads from and writes to.
type Repository interface {
	List(context.Context) ([]models.Customer, error)
	SetField(ctx context.Context, id, field string, v models.Value) error
}

type Recorder interface {
	RecordPrediction(label int)
}

type ChurnService struct {
	pre        Preprocessor
	clf        Classifier
	target     Repository
	labelField string
	rec        Recorder
	lg         logger.Logger
}

func New(pre Preprocessor, clf Classifier, target Repository, labelField string,
	rec Recorder, lg logger.Logger,
) *ChurnService {
	return &ChurnService{
		pre:        pre,
		clf:        clf,
		target:     target,
		labelField: labelField,
		rec:        rec,
		lg:         lg,
	}
}

// Predict classifies a single record. Records missing any required feature
// are rejected before the model is touched.
func (cs *ChurnService) Predict(f models.Fields) (int, error) {
	fr, err := models.NewFeatureRecord(f)
	if err != nil {
		return 0, err
	}

	return cs.predict(fr)
}

func (cs *ChurnService) predict(fr models.FeatureRecord) (int, error) {
	x, err := cs.pre.Transform(fr)
	if err != nil {
		return 0, fmt.Errorf("transform error: %w", err)
	}

	label, err := cs.clf.Predict(x)
	if err != nil {
		return 0, fmt.Errorf("predict error: %w", err)
	}

	cs.rec.RecordPrediction(label)

	return label, nil
}

// BatchPredictAndUpdate labels every record of the target collection and
// writes the label back under the configured field. All records are checked
// before anything is written; it returns the number of updated records.
func (cs *ChurnService) BatchPredictAndUpdate(ctx context.Context) (int, error) {
	customers, err := cs.target.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list customers error: %w", err)
	}

	features := make([]models.FeatureRecord, len(customers))

	for i, c := range customers {
		fr, err := models.NewFeatureRecord(c.Fields)
		if err != nil {
			return 0, fmt.Errorf("record %s: %w", c.ID, err)
		}

		features[i] = fr
	}

	labels := make([]int, len(customers))

	for i, fr := range features {
		label, err := cs.predict(fr)
		if err != nil {
			return 0, fmt.Errorf("record %s: %w", customers[i].ID, err)
		}

		labels[i] = label
	}

	for i, c := range customers {
		if err := cs.target.SetField(ctx, c.ID, cs.labelField, models.Int(int64(labels[i]))); err != nil {
			cs.lg.Errorf("batch write-back stopped after %d of %d records: %s", i, len(customers), err.Error())

			return i, fmt.Errorf("set %s on record %s error: %w", cs.labelField, c.ID, err)
		}
	}

	cs.lg.Infof("batch prediction updated %d records", len(customers))

	return len(customers), nil
}
