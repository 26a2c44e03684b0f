// internal/server/db/database.go

package db

import (
	"fmt"

	"gorm.io/gorm"

	appmodels "gputrace/internal/models"
	models "gputrace/internal/server/db/models"
)

type Database struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Database {
	return &Database{DB: db}
}

func (d *Database) Migrate() error {
	// The order is important here due to foreign key constraints
	modelsList := []interface{}{
		&models.ProfileRun{},
		&models.Environment{},
		&models.GPU{},
		&models.OperationStat{},
	}

	for _, model := range modelsList {
		if err := d.DB.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	return nil
}

// SaveRun persists a run with its environment and stat rows in one
// transaction.
func (d *Database) SaveRun(run *appmodels.ProfileRun) error {
	record := toRecord(run)

	// Associations are created explicitly, in dependency order.
	environment := record.Environment
	gpus := environment.GPUs
	environment.GPUs = nil
	operations := record.Operations
	record.Environment = models.Environment{}
	record.Operations = nil

	return d.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(record).Error; err != nil {
			return fmt.Errorf("failed to create run: %w", err)
		}

		if err := tx.Create(&environment).Error; err != nil {
			return fmt.Errorf("failed to create environment: %w", err)
		}

		if len(gpus) > 0 {
			if err := tx.Create(&gpus).Error; err != nil {
				return fmt.Errorf("failed to create GPUs: %w", err)
			}
		}

		if len(operations) > 0 {
			if err := tx.Create(&operations).Error; err != nil {
				return fmt.Errorf("failed to create operation stats: %w", err)
			}
		}

		return nil
	})
}

func (d *Database) GetRunByID(id string) (*models.ProfileRun, error) {
	var run models.ProfileRun

	result := d.DB.
		Preload("Environment.GPUs").
		Preload("Environment").
		First(&run, "id = ?", id)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get run: %w", result.Error)
	}

	// Stat rows are loaded separately so they come back in position order.
	if err := d.DB.
		Where("run_id = ?", run.ID).
		Order("position ASC").
		Find(&run.Operations).Error; err != nil {
		return nil, fmt.Errorf("failed to load operation stats: %w", err)
	}

	return &run, nil
}

func (d *Database) ListRuns(pageSize int, lastID string) ([]models.ProfileRun, error) {
	var runs []models.ProfileRun

	query := d.DB.Model(&models.ProfileRun{}).Order("created_at DESC")

	if lastID != "" {
		var lastRun models.ProfileRun
		if err := d.DB.First(&lastRun, "id = ?", lastID).Error; err != nil {
			return nil, err
		}
		query = query.Where("created_at < ?", lastRun.CreatedAt)
	}

	err := query.
		Preload("Environment").
		Limit(pageSize).
		Find(&runs).Error
	if err != nil {
		return nil, err
	}

	return runs, nil
}

func (d *Database) DeleteRun(id string) error {
	return d.DB.Transaction(func(tx *gorm.DB) error {
		// Delete related records first to maintain referential integrity
		if err := tx.Where("run_id = ?", id).Delete(&models.OperationStat{}).Error; err != nil {
			return err
		}
		if err := tx.Where("run_id = ?", id).Delete(&models.GPU{}).Error; err != nil {
			return err
		}
		if err := tx.Where("run_id = ?", id).Delete(&models.Environment{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", id).Delete(&models.ProfileRun{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return nil
	})
}

func toRecord(run *appmodels.ProfileRun) *models.ProfileRun {
	record := &models.ProfileRun{
		ID:                  run.ID,
		TracePath:           run.TracePath,
		AnchorName:          run.AnchorName,
		DecodeMaxDurationUs: run.DecodeMaxDuration,
		TotalEvents:         run.Counters.TotalEvents,
		OperationsFound:     run.Counters.OperationsFound,
		StepsFound:          run.Counters.StepsFound,
		StepsFiltered:       run.Counters.StepsFiltered,
		StepsRemaining:      run.Counters.StepsRemaining,
		LengthMismatches:    run.Counters.LengthMismatches,
		NameMismatches:      run.Counters.NameMismatches,
		ReferenceLength:     run.Counters.ReferenceLength,
		ReferenceTally:      run.Counters.ReferenceTally,
	}

	record.Environment = models.Environment{
		RunID:       run.ID,
		Hostname:    run.Environment.Hostname,
		OS:          run.Environment.OS,
		Arch:        run.Environment.Arch,
		CPUModel:    run.Environment.CPUModel,
		CPUCores:    run.Environment.CPUCores,
		MemoryTotal: run.Environment.MemoryTotal,
	}
	for _, gpu := range run.Environment.GPUs {
		record.Environment.GPUs = append(record.Environment.GPUs, models.GPU{
			RunID:  run.ID,
			Model:  gpu.Model,
			Memory: gpu.Memory,
			Driver: gpu.Driver,
		})
	}

	for i, rec := range run.Records {
		record.Operations = append(record.Operations, models.OperationStat{
			RunID:          run.ID,
			Position:       i,
			Name:           rec.OperationName,
			AvgStartTimeUs: rec.AvgStartTime,
			AvgEndTimeUs:   rec.AvgEndTime,
			AvgDurationUs:  rec.AvgDuration,
			BubbleTimeUs:   rec.BubbleTime,
		})
	}

	return record
}
