package scan

import (
	"context"
	"errors"
	"mime/multipart"
	"sync"
	"testing"
	"time"

	"modmaster-backend/domain"
	"modmaster-backend/entities"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type statusTransition struct {
	id      string
	from    []string
	updates map[string]interface{}
}

type fakeScanRepository struct {
	mu          sync.Mutex
	scans       map[string]*entities.Scan
	monthCount  int64
	transitions []statusTransition
	// transitionRows overrides the CAS result; nil means 1 row per call.
	transitionRows *int64
	feedback       []*entities.ScanFeedback
	stuck          []*entities.Scan
	stale          []*entities.Scan
}

func newFakeScanRepository() *fakeScanRepository {
	return &fakeScanRepository{scans: map[string]*entities.Scan{}}
}

func (f *fakeScanRepository) CreateScan(ctx context.Context, scan *entities.Scan) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scans[scan.ID.String()] = scan
	return nil
}

func (f *fakeScanRepository) GetScanByID(ctx context.Context, id string) (*entities.Scan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	scan, ok := f.scans[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return scan, nil
}

func (f *fakeScanRepository) UpdateScan(ctx context.Context, scan *entities.Scan) error {
	return f.CreateScan(ctx, scan)
}

func (f *fakeScanRepository) DeleteScan(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.scans, id)
	return nil
}

func (f *fakeScanRepository) GetScans(ctx context.Context, userID string, status string, page, limit int) ([]*entities.Scan, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entities.Scan
	for _, scan := range f.scans {
		if scan.UserID.String() == userID {
			out = append(out, scan)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeScanRepository) CountScansInMonth(ctx context.Context, userID string, monthStart time.Time) (int64, error) {
	return f.monthCount, nil
}

func (f *fakeScanRepository) TransitionStatus(ctx context.Context, id string, fromStatuses []string, updates map[string]interface{}) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.transitions = append(f.transitions, statusTransition{id: id, from: fromStatuses, updates: updates})
	if f.transitionRows != nil {
		return *f.transitionRows, nil
	}
	return 1, nil
}

func (f *fakeScanRepository) GetStuckProcessing(ctx context.Context, before time.Time) ([]*entities.Scan, error) {
	return f.stuck, nil
}

func (f *fakeScanRepository) GetStalePending(ctx context.Context, before time.Time) ([]*entities.Scan, error) {
	return f.stale, nil
}

func (f *fakeScanRepository) CreateFeedback(ctx context.Context, feedback *entities.ScanFeedback) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.feedback = append(f.feedback, feedback)
	return nil
}

type fakeUserRepository struct {
	users map[string]*entities.User
}

func (f *fakeUserRepository) CreateUser(ctx context.Context, user *entities.User) error { return nil }

func (f *fakeUserRepository) GetUserByID(ctx context.Context, id string) (*entities.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeUserRepository) GetUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepository) UpdateUser(ctx context.Context, user *entities.User) error { return nil }

func (f *fakeUserRepository) UpdateSubscription(ctx context.Context, userID string, tier string) error {
	return nil
}

type fakeInferenceClient struct {
	mu          sync.Mutex
	dispatchErr error
	dispatched  []string
	feedbackCh  chan *entities.ScanFeedback
}

func (f *fakeInferenceClient) Dispatch(ctx context.Context, scan *entities.Scan) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.dispatchErr != nil {
		return f.dispatchErr
	}
	f.dispatched = append(f.dispatched, scan.ID.String())
	return nil
}

func (f *fakeInferenceClient) SendTrainingFeedback(ctx context.Context, feedback *entities.ScanFeedback) error {
	if f.feedbackCh != nil {
		f.feedbackCh <- feedback
	}
	return nil
}

type fakeRecommender struct {
	generated chan *entities.Scan
}

func (f *fakeRecommender) GenerateForScan(ctx context.Context, scan *entities.Scan) error {
	if f.generated != nil {
		f.generated <- scan
	}
	return nil
}

type fakeS3 struct {
	mu        sync.Mutex
	uploadErr error
	failAfter int // fail uploads once this many succeeded; 0 disables
	uploaded  []string
	deleted   []string
}

func (f *fakeS3) UploadFile(fileName string, file *multipart.FileHeader, dir string, allowedTypes ...string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil && (f.failAfter == 0 || len(f.uploaded) >= f.failAfter) {
		return "", f.uploadErr
	}
	key := dir + "/" + fileName
	f.uploaded = append(f.uploaded, key)
	return key, nil
}

func (f *fakeS3) UpdateFile(objectKey string, file *multipart.FileHeader, allowedTypes ...string) (string, error) {
	return objectKey, nil
}

func (f *fakeS3) DeleteFile(objectKey string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, objectKey)
	return nil
}

func (f *fakeS3) GetPublicLinkKey(objectKey string) string { return "https://cdn.test/" + objectKey }

func (f *fakeS3) GetObjectKeyFromLink(link string) string { return link }

type scanFixture struct {
	repo      *fakeScanRepository
	users     *fakeUserRepository
	inference *fakeInferenceClient
	rec       *fakeRecommender
	s3        *fakeS3
	service   ScanService
	userID    uuid.UUID
}

func newScanFixture(t *testing.T, tier string) *scanFixture {
	t.Helper()

	userID := uuid.New()
	f := &scanFixture{
		repo: newFakeScanRepository(),
		users: &fakeUserRepository{users: map[string]*entities.User{
			userID.String(): {ID: userID, Email: "owner@test.dev", Subscription: tier},
		}},
		inference: &fakeInferenceClient{},
		rec:       &fakeRecommender{},
		s3:        &fakeS3{},
		userID:    userID,
	}
	f.service = NewScanService(f.repo, f.users, f.inference, f.rec, f.s3)
	return f
}

func imageHeaders(n int) []*multipart.FileHeader {
	headers := make([]*multipart.FileHeader, n)
	for i := range headers {
		headers[i] = &multipart.FileHeader{Filename: "image.jpg"}
	}
	return headers
}

func TestCreateScanPersistsPendingAndDispatches(t *testing.T) {
	f := newScanFixture(t, entities.SubscriptionBasic)

	resp, err := f.service.CreateScan(context.Background(), domain.CreateScanRequest{
		ScanType: entities.ScanTypeEngineBay,
		Images:   imageHeaders(2),
	}, f.userID.String())
	require.NoError(t, err)

	assert.Equal(t, entities.ScanStatusPending, resp.Status)
	assert.Len(t, resp.Images, 2)

	created := f.repo.scans[resp.ScanID]
	require.NotNil(t, created)
	assert.Equal(t, entities.ScanStatusPending, created.Status)

	// Dispatch succeeded, so the scan was moved to processing via CAS.
	require.Len(t, f.repo.transitions, 1)
	assert.Equal(t, []string{entities.ScanStatusPending}, f.repo.transitions[0].from)
	assert.Equal(t, entities.ScanStatusProcessing, f.repo.transitions[0].updates["status"])
}

func TestCreateScanStaysPendingWhenDispatchFails(t *testing.T) {
	f := newScanFixture(t, entities.SubscriptionBasic)
	f.inference.dispatchErr = errors.New("worker unreachable")

	resp, err := f.service.CreateScan(context.Background(), domain.CreateScanRequest{
		ScanType: entities.ScanTypeFullVehicle,
		Images:   imageHeaders(1),
	}, f.userID.String())
	require.NoError(t, err)

	assert.Equal(t, entities.ScanStatusPending, resp.Status)
	assert.Empty(t, f.repo.transitions)
}

func TestCreateScanImageCountValidation(t *testing.T) {
	f := newScanFixture(t, entities.SubscriptionBasic)

	_, err := f.service.CreateScan(context.Background(), domain.CreateScanRequest{
		ScanType: entities.ScanTypeEngineBay,
	}, f.userID.String())
	assert.ErrorIs(t, err, domain.ErrInvalidImageCount)

	_, err = f.service.CreateScan(context.Background(), domain.CreateScanRequest{
		ScanType: entities.ScanTypeEngineBay,
		Images:   imageHeaders(11),
	}, f.userID.String())
	assert.ErrorIs(t, err, domain.ErrInvalidImageCount)
}

func TestCreateScanRejectsUnknownType(t *testing.T) {
	f := newScanFixture(t, entities.SubscriptionBasic)

	_, err := f.service.CreateScan(context.Background(), domain.CreateScanRequest{
		ScanType: "x_ray",
		Images:   imageHeaders(1),
	}, f.userID.String())
	assert.ErrorIs(t, err, domain.ErrInvalidScanType)
}

func TestCreateScanQuotaEnforcedPerTier(t *testing.T) {
	basic := newScanFixture(t, entities.SubscriptionBasic)
	basic.repo.monthCount = 9

	_, err := basic.service.CreateScan(context.Background(), domain.CreateScanRequest{
		ScanType: entities.ScanTypeVIN,
		Images:   imageHeaders(1),
	}, basic.userID.String())
	require.NoError(t, err)

	basic.repo.monthCount = 10
	_, err = basic.service.CreateScan(context.Background(), domain.CreateScanRequest{
		ScanType: entities.ScanTypeVIN,
		Images:   imageHeaders(1),
	}, basic.userID.String())
	assert.ErrorIs(t, err, domain.ErrQuotaExceeded)

	shop := newScanFixture(t, entities.SubscriptionShop)
	shop.repo.monthCount = 5000
	_, err = shop.service.CreateScan(context.Background(), domain.CreateScanRequest{
		ScanType: entities.ScanTypeVIN,
		Images:   imageHeaders(1),
	}, shop.userID.String())
	assert.NoError(t, err)
}

func TestCreateScanCleansUpUploadsOnFailure(t *testing.T) {
	f := newScanFixture(t, entities.SubscriptionBasic)
	f.s3.uploadErr = errors.New("bucket unavailable")
	f.s3.failAfter = 2

	_, err := f.service.CreateScan(context.Background(), domain.CreateScanRequest{
		ScanType: entities.ScanTypeEngineBay,
		Images:   imageHeaders(3),
	}, f.userID.String())
	require.Error(t, err)

	assert.Len(t, f.s3.deleted, 2)
	assert.Empty(t, f.repo.scans)
}

func TestGetScanHidesOtherUsers(t *testing.T) {
	f := newScanFixture(t, entities.SubscriptionBasic)
	scanID := uuid.New()
	f.repo.scans[scanID.String()] = &entities.Scan{
		ID:     scanID,
		UserID: f.userID,
		Status: entities.ScanStatusPending,
	}

	_, err := f.service.GetScan(context.Background(), scanID.String(), uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrScanNotFound)

	_, err = f.service.GetScan(context.Background(), uuid.NewString(), f.userID.String())
	assert.ErrorIs(t, err, domain.ErrScanNotFound)
}

func TestReconcileResultRejectsNonTerminalStatus(t *testing.T) {
	f := newScanFixture(t, entities.SubscriptionBasic)
	scanID := uuid.New()
	f.repo.scans[scanID.String()] = &entities.Scan{
		ID:     scanID,
		UserID: f.userID,
		Status: entities.ScanStatusProcessing,
	}

	err := f.service.ReconcileResult(context.Background(), scanID.String(), domain.ScanResultPayload{
		Status: entities.ScanStatusProcessing,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidResultState)
}

func TestReconcileResultCompletedTriggersRecommendations(t *testing.T) {
	f := newScanFixture(t, entities.SubscriptionBasic)
	f.rec.generated = make(chan *entities.Scan, 1)
	scanID := uuid.New()
	f.repo.scans[scanID.String()] = &entities.Scan{
		ID:       scanID,
		UserID:   f.userID,
		ScanType: entities.ScanTypeEngineBay,
		Status:   entities.ScanStatusProcessing,
	}

	confidence := 0.92
	partID := uuid.NewString()
	err := f.service.ReconcileResult(context.Background(), scanID.String(), domain.ScanResultPayload{
		Status:          entities.ScanStatusCompleted,
		ConfidenceScore: &confidence,
		DetectedParts: []domain.DetectedPartPayload{
			{PartID: &partID, Label: "turbocharger", Confidence: 0.92},
		},
		ProcessingTimeMs: 3200,
	})
	require.NoError(t, err)

	require.Len(t, f.repo.transitions, 1)
	tr := f.repo.transitions[0]
	assert.ElementsMatch(t, []string{entities.ScanStatusPending, entities.ScanStatusProcessing}, tr.from)
	assert.Equal(t, entities.ScanStatusCompleted, tr.updates["status"])
	assert.NotNil(t, tr.updates["completed_at"])

	select {
	case generated := <-f.rec.generated:
		assert.Equal(t, scanID, generated.ID)
		assert.Len(t, generated.DetectedParts, 1)
	case <-time.After(2 * time.Second):
		t.Fatal("recommendation generation was not triggered")
	}
}

func TestReconcileResultFailedRecordsError(t *testing.T) {
	f := newScanFixture(t, entities.SubscriptionBasic)
	scanID := uuid.New()
	f.repo.scans[scanID.String()] = &entities.Scan{
		ID:     scanID,
		UserID: f.userID,
		Status: entities.ScanStatusProcessing,
	}

	err := f.service.ReconcileResult(context.Background(), scanID.String(), domain.ScanResultPayload{
		Status:       entities.ScanStatusFailed,
		ErrorMessage: "no vehicle detected",
	})
	require.NoError(t, err)

	require.Len(t, f.repo.transitions, 1)
	tr := f.repo.transitions[0]
	assert.Equal(t, entities.ScanStatusFailed, tr.updates["status"])
	assert.Equal(t, "no vehicle detected", tr.updates["error_message"])
}

func TestReconcileResultDuplicateIsNoOp(t *testing.T) {
	f := newScanFixture(t, entities.SubscriptionBasic)
	f.rec.generated = make(chan *entities.Scan, 1)
	scanID := uuid.New()
	f.repo.scans[scanID.String()] = &entities.Scan{
		ID:     scanID,
		UserID: f.userID,
		Status: entities.ScanStatusCompleted,
	}
	var noRows int64
	f.repo.transitionRows = &noRows

	err := f.service.ReconcileResult(context.Background(), scanID.String(), domain.ScanResultPayload{
		Status: entities.ScanStatusCompleted,
	})
	require.NoError(t, err)

	select {
	case <-f.rec.generated:
		t.Fatal("duplicate reconcile must not regenerate recommendations")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestRetryScanOnlyFromFailed(t *testing.T) {
	f := newScanFixture(t, entities.SubscriptionBasic)
	scanID := uuid.New()
	f.repo.scans[scanID.String()] = &entities.Scan{
		ID:     scanID,
		UserID: f.userID,
		Status: entities.ScanStatusCompleted,
	}

	err := f.service.RetryScan(context.Background(), scanID.String(), f.userID.String())
	assert.ErrorIs(t, err, domain.ErrInvalidScanState)
}

func TestRetryScanResetsAndRedispatches(t *testing.T) {
	f := newScanFixture(t, entities.SubscriptionBasic)
	scanID := uuid.New()
	errMsg := "processing timed out"
	f.repo.scans[scanID.String()] = &entities.Scan{
		ID:           scanID,
		UserID:       f.userID,
		Status:       entities.ScanStatusFailed,
		ErrorMessage: &errMsg,
		RetryCount:   1,
	}

	err := f.service.RetryScan(context.Background(), scanID.String(), f.userID.String())
	require.NoError(t, err)

	// First transition resets to pending, second marks processing after
	// the successful redispatch.
	require.Len(t, f.repo.transitions, 2)
	reset := f.repo.transitions[0]
	assert.Equal(t, []string{entities.ScanStatusFailed}, reset.from)
	assert.Equal(t, entities.ScanStatusPending, reset.updates["status"])
	assert.Equal(t, 2, reset.updates["retry_count"])
	assert.Nil(t, reset.updates["error_message"])

	assert.Equal(t, []string{scanID.String()}, f.inference.dispatched)
}

func TestSubmitFeedbackRequiresCompletedScan(t *testing.T) {
	f := newScanFixture(t, entities.SubscriptionBasic)
	scanID := uuid.New()
	f.repo.scans[scanID.String()] = &entities.Scan{
		ID:     scanID,
		UserID: f.userID,
		Status: entities.ScanStatusPending,
	}

	err := f.service.SubmitFeedback(context.Background(), scanID.String(), f.userID.String(), domain.SubmitFeedbackRequest{Accurate: true})
	assert.ErrorIs(t, err, domain.ErrInvalidScanState)
}

func TestSubmitFeedbackForwardsToTraining(t *testing.T) {
	f := newScanFixture(t, entities.SubscriptionBasic)
	f.inference.feedbackCh = make(chan *entities.ScanFeedback, 1)
	scanID := uuid.New()
	f.repo.scans[scanID.String()] = &entities.Scan{
		ID:     scanID,
		UserID: f.userID,
		Status: entities.ScanStatusCompleted,
	}

	err := f.service.SubmitFeedback(context.Background(), scanID.String(), f.userID.String(), domain.SubmitFeedbackRequest{
		Accurate:           false,
		MisidentifiedParts: []string{"intake manifold"},
		Comments:           "that is an intercooler",
	})
	require.NoError(t, err)

	require.Len(t, f.repo.feedback, 1)
	assert.False(t, f.repo.feedback[0].Accurate)

	select {
	case forwarded := <-f.inference.feedbackCh:
		assert.Equal(t, scanID, forwarded.ScanID)
	case <-time.After(2 * time.Second):
		t.Fatal("training feedback was not forwarded")
	}
}
