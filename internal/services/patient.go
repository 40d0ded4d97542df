package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"patient-records/internal/logger"
	"patient-records/internal/models"
	"patient-records/internal/store"
)

// PatientService saves, deletes and searches patient records.
type PatientService struct {
	store  *store.Store
	ids    *models.IDGenerator
	logger logger.Logger
}

// NewPatientService creates a new patient service
func NewPatientService(s *store.Store, ids *models.IDGenerator, log logger.Logger) *PatientService {
	return &PatientService{
		store:  s,
		ids:    ids,
		logger: log,
	}
}

// Save validates the record, assigns an identifier when it has none and
// persists it. The identifier is written back into record.
func (ps *PatientService) Save(ctx context.Context, record *models.PatientRecord) (string, error) {
	if err := models.Validate(record); err != nil {
		return "", err
	}

	created := record.ID == ""
	if created {
		record.ID = ps.ids.Next(models.PatientKeyPrefix)
	}

	if err := ps.store.Put(ctx, record.ID, record); err != nil {
		if created {
			record.ID = ""
		}
		return "", fmt.Errorf("failed to save patient: %w", err)
	}

	ps.logger.Info("PatientService", "patient saved", map[string]interface{}{
		"id":      record.ID,
		"created": created,
	})
	return record.ID, nil
}

// Delete removes the patient stored under id. An empty id is a no-op.
func (ps *PatientService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}

	if err := ps.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}

	ps.logger.Info("PatientService", "patient deleted", map[string]interface{}{"id": id})
	return nil
}

// Get loads a single patient. Fields missing from the stored value stay at
// their zero value, as they do in Search.
func (ps *PatientService) Get(ctx context.Context, id string) (*models.PatientRecord, error) {
	record := &models.PatientRecord{}
	if err := ps.store.Get(ctx, id, record); err != nil {
		return nil, fmt.Errorf("failed to load patient %s: %w", id, err)
	}
	return record, nil
}

// Search returns the patients whose identifier or name contains term, case
// insensitively, ordered by name. The empty term returns every patient.
func (ps *PatientService) Search(ctx context.Context, term string) ([]models.PatientRecord, error) {
	start := time.Now()

	patients, err := store.ScanFilter(ctx, ps.store, store.ScanOptions{Prefix: models.PatientKeyPrefix},
		func(_ string, p *models.PatientRecord) bool {
			return p.Matches(term)
		})
	if err != nil {
		return nil, fmt.Errorf("failed to search patients: %w", err)
	}

	SortPatients(patients)

	ps.logger.Debug("PatientService", "search completed", map[string]interface{}{
		"term":        term,
		"results":     len(patients),
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return patients, nil
}

// Count returns the number of stored patients.
func (ps *PatientService) Count(ctx context.Context) (int, error) {
	return ps.store.Count(ctx, models.PatientKeyPrefix)
}

// SortPatients orders patients by name, then by identifier for equal names.
func SortPatients(patients []models.PatientRecord) {
	sort.SliceStable(patients, func(i, j int) bool {
		if patients[i].Name != patients[j].Name {
			return patients[i].Name < patients[j].Name
		}
		return patients[i].ID < patients[j].ID
	})
}
