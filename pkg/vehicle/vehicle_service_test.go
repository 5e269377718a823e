package vehicle

import (
	"context"
	"testing"

	"modmaster-backend/domain"
	"modmaster-backend/entities"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeVehicleRepository struct {
	byID map[string]*entities.Vehicle
}

func newFakeVehicleRepository() *fakeVehicleRepository {
	return &fakeVehicleRepository{byID: map[string]*entities.Vehicle{}}
}

func (f *fakeVehicleRepository) CreateVehicle(ctx context.Context, vehicle *entities.Vehicle) error {
	f.byID[vehicle.ID.String()] = vehicle
	return nil
}

func (f *fakeVehicleRepository) GetVehicleByID(ctx context.Context, id string) (*entities.Vehicle, error) {
	vehicle, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return vehicle, nil
}

func (f *fakeVehicleRepository) GetVehiclesByUser(ctx context.Context, userID string) ([]*entities.Vehicle, error) {
	var out []*entities.Vehicle
	for _, vehicle := range f.byID {
		if vehicle.UserID.String() == userID {
			out = append(out, vehicle)
		}
	}
	return out, nil
}

func (f *fakeVehicleRepository) UpdateVehicle(ctx context.Context, vehicle *entities.Vehicle) error {
	return f.CreateVehicle(ctx, vehicle)
}

func (f *fakeVehicleRepository) DeleteVehicle(ctx context.Context, id string) error {
	delete(f.byID, id)
	return nil
}

func TestAddAndGetVehicles(t *testing.T) {
	repo := newFakeVehicleRepository()
	service := NewVehicleService(repo)
	userID := uuid.NewString()

	resp, err := service.AddVehicle(context.Background(), domain.AddVehicleRequest{
		Make: "Toyota", Model: "Supra", Year: 1998,
	}, userID)
	require.NoError(t, err)
	assert.Equal(t, "Toyota", resp.Make)

	vehicles, err := service.GetVehicles(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, vehicles, 1)

	other, err := service.GetVehicles(context.Background(), uuid.NewString())
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestUpdateVehicleOwnershipCheck(t *testing.T) {
	repo := newFakeVehicleRepository()
	service := NewVehicleService(repo)
	userID := uuid.NewString()

	created, err := service.AddVehicle(context.Background(), domain.AddVehicleRequest{
		Make: "Toyota", Model: "Supra", Year: 1998,
	}, userID)
	require.NoError(t, err)

	err = service.UpdateVehicle(context.Background(), created.ID, domain.UpdateVehicleRequest{Trim: "RZ"}, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrVehicleNotFound)

	err = service.UpdateVehicle(context.Background(), created.ID, domain.UpdateVehicleRequest{Trim: "RZ"}, userID)
	require.NoError(t, err)
	assert.Equal(t, "RZ", repo.byID[created.ID].Trim)
}

func TestInstallPartIsIdempotent(t *testing.T) {
	repo := newFakeVehicleRepository()
	service := NewVehicleService(repo)
	userID := uuid.NewString()

	created, err := service.AddVehicle(context.Background(), domain.AddVehicleRequest{
		Make: "Subaru", Model: "WRX", Year: 2020,
	}, userID)
	require.NoError(t, err)

	partID := uuid.NewString()
	require.NoError(t, service.InstallPart(context.Background(), created.ID, domain.InstallPartRequest{PartID: partID}, userID))
	require.NoError(t, service.InstallPart(context.Background(), created.ID, domain.InstallPartRequest{PartID: partID}, userID))

	assert.Equal(t, entities.StringList{partID}, repo.byID[created.ID].InstalledPartIDs)
}
