package services

import (
	"context"
	"fmt"
	"sort"

	"patient-records/internal/logger"
	"patient-records/internal/models"
	"patient-records/internal/store"
)

// MedicationService appends medication records. Each save is stored under a
// newly generated identifier; there is no update path.
type MedicationService struct {
	store  *store.Store
	ids    *models.IDGenerator
	logger logger.Logger
}

func NewMedicationService(s *store.Store, ids *models.IDGenerator, log logger.Logger) *MedicationService {
	return &MedicationService{
		store:  s,
		ids:    ids,
		logger: log,
	}
}

// Save persists med and returns the identifier it was stored under.
func (ms *MedicationService) Save(ctx context.Context, med *models.Medication) (string, error) {
	if err := models.Validate(med); err != nil {
		return "", err
	}

	id := ms.ids.Next(models.MedicationKeyPrefix)
	if err := ms.store.Put(ctx, id, med); err != nil {
		return "", fmt.Errorf("failed to save medication: %w", err)
	}

	ms.logger.Info("MedicationService", "medication saved", map[string]interface{}{
		"id":   id,
		"name": med.Name,
	})
	return id, nil
}

// StoredMedication pairs a medication with its store key.
type StoredMedication struct {
	ID string `json:"id"`
	models.Medication
}

// List returns every stored medication ordered by name.
func (ms *MedicationService) List(ctx context.Context) ([]StoredMedication, error) {
	var result []StoredMedication
	_, err := store.ScanFilter(ctx, ms.store, store.ScanOptions{Prefix: models.MedicationKeyPrefix},
		func(key string, med *models.Medication) bool {
			result = append(result, StoredMedication{ID: key, Medication: *med})
			return false
		})
	if err != nil {
		return nil, fmt.Errorf("failed to list medications: %w", err)
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}
