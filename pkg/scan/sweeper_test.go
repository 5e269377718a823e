package scan

import (
	"context"
	"errors"
	"testing"

	"modmaster-backend/entities"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweepFailsStuckProcessing(t *testing.T) {
	repo := newFakeScanRepository()
	inferenceClient := &fakeInferenceClient{}
	stuckID := uuid.New()
	repo.stuck = []*entities.Scan{
		{ID: stuckID, Status: entities.ScanStatusProcessing},
	}

	NewSweeper(repo, inferenceClient).Sweep(context.Background())

	require.Len(t, repo.transitions, 1)
	tr := repo.transitions[0]
	assert.Equal(t, stuckID.String(), tr.id)
	assert.Equal(t, []string{entities.ScanStatusProcessing}, tr.from)
	assert.Equal(t, entities.ScanStatusFailed, tr.updates["status"])
	assert.Equal(t, "processing timed out", tr.updates["error_message"])
}

func TestSweepRedispatchesStalePending(t *testing.T) {
	repo := newFakeScanRepository()
	inferenceClient := &fakeInferenceClient{}
	staleID := uuid.New()
	repo.stale = []*entities.Scan{
		{ID: staleID, Status: entities.ScanStatusPending},
	}

	NewSweeper(repo, inferenceClient).Sweep(context.Background())

	assert.Equal(t, []string{staleID.String()}, inferenceClient.dispatched)
	require.Len(t, repo.transitions, 1)
	assert.Equal(t, entities.ScanStatusProcessing, repo.transitions[0].updates["status"])
}

func TestSweepLeavesPendingWhenRedispatchFails(t *testing.T) {
	repo := newFakeScanRepository()
	inferenceClient := &fakeInferenceClient{dispatchErr: errors.New("worker unreachable")}
	repo.stale = []*entities.Scan{
		{ID: uuid.New(), Status: entities.ScanStatusPending},
	}

	NewSweeper(repo, inferenceClient).Sweep(context.Background())

	assert.Empty(t, repo.transitions)
}
