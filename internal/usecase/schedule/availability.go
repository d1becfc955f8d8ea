package schedule

import (
	"context"
	"time"

	"github.com/BruksfildServices01/gym-manager/internal/domain/access"
	domain "github.com/BruksfildServices01/gym-manager/internal/domain/schedule"
	"github.com/BruksfildServices01/gym-manager/internal/models"
)

const DefaultSlotLength = time.Hour

// GetTrainerAvailability lists a trainer's free slots for one day.
type GetTrainerAvailability struct {
	repo domain.Repository
}

func NewGetTrainerAvailability(repo domain.Repository) *GetTrainerAvailability {
	return &GetTrainerAvailability{repo: repo}
}

// Execute returns free slots on day, which must be midnight in the gym timezone.
func (uc *GetTrainerAvailability) Execute(
	ctx context.Context,
	trainerID uint,
	day time.Time,
	slot time.Duration,
) ([]domain.TimeSlot, error) {

	trainer, err := uc.repo.GetUser(ctx, trainerID)
	if err != nil {
		return nil, notFoundAs(err, "pt_not_found", "Personal trainer not found.")
	}
	if trainer.Role != models.RoleTrainer || !trainer.IsActive {
		return nil, ErrInvalidTrainer
	}

	if slot <= 0 {
		slot = DefaultSlotLength
	}

	// Read as the trainer so the scope keeps only their sessions.
	asTrainer := access.Actor{UserID: trainer.ID, Role: models.RoleTrainer}
	busy, err := uc.repo.ListSchedulesForPeriod(ctx, asTrainer, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	return domain.FreeSlots(day, slot, busy), nil
}
