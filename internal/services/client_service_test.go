package services

import (
	"encoding/json"
	"errors"
	"sort"
	"testing"

	"visatrack_backend/internal/models"
	"visatrack_backend/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClientRepo is an in-memory ClientRepository honoring the same contracts
// as the Postgres implementation: store-assigned sequential ids, id-descending
// listing, zero-rows-affected on identical updates, and a reorder procedure
// that rewrites ids to 1..N in ascending-id order under a row cap.
type fakeClientRepo struct {
	clients    map[int64]models.Client
	nextID     int64
	reorderErr error
	deleteErr  error
}

func newFakeClientRepo() *fakeClientRepo {
	return &fakeClientRepo{clients: map[int64]models.Client{}, nextID: 1}
}

func (f *fakeClientRepo) CreateClient(_ repositories.SQLExecutor, client *models.Client) (int64, error) {
	client.ID = f.nextID
	f.nextID++
	f.clients[client.ID] = *client
	return client.ID, nil
}

func (f *fakeClientRepo) GetClientByID(id int64) (*models.Client, error) {
	client, ok := f.clients[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &client, nil
}

func (f *fakeClientRepo) sortedIDs() []int64 {
	ids := make([]int64, 0, len(f.clients))
	for id := range f.clients {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (f *fakeClientRepo) GetClients() ([]models.Client, error) {
	ids := f.sortedIDs()
	clients := make([]models.Client, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		clients = append(clients, f.clients[ids[i]])
	}
	return clients, nil
}

func (f *fakeClientRepo) UpdateClient(_ repositories.SQLExecutor, client *models.Client) (int64, error) {
	existing, ok := f.clients[client.ID]
	if !ok {
		return 0, nil
	}
	if clientEqual(existing, *client) {
		return 0, nil
	}
	f.clients[client.ID] = *client
	return 1, nil
}

func (f *fakeClientRepo) DeleteClients(_ repositories.SQLExecutor, ids []int64) (int64, error) {
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	var deleted int64
	for _, id := range ids {
		if _, ok := f.clients[id]; ok {
			delete(f.clients, id)
			deleted++
		}
	}
	return deleted, nil
}

func (f *fakeClientRepo) ReorderClientIDs(maxRows int) (int, error) {
	if f.reorderErr != nil {
		return 0, f.reorderErr
	}
	ids := f.sortedIDs()
	if len(ids) > maxRows {
		return len(ids), repositories.ErrReorderSkipped
	}
	renumbered := map[int64]models.Client{}
	for i, id := range ids {
		client := f.clients[id]
		client.ID = int64(i + 1)
		renumbered[client.ID] = client
	}
	f.clients = renumbered
	f.nextID = int64(len(ids) + 1)
	return len(ids), nil
}

func clientEqual(a, b models.Client) bool {
	aJSON, _ := json.Marshal(a)
	bJSON, _ := json.Marshal(b)
	return string(aJSON) == string(bJSON)
}

func newTestClientService(repo *fakeClientRepo) ClientService {
	return NewClientService(repo, nil, DefaultRenumberConfig())
}

func mustCreate(t *testing.T, svc ClientService, name string) *models.Client {
	t.Helper()
	req := validCreateRequest()
	req.Name = name
	client, err := svc.CreateClient(req)
	require.NoError(t, err)
	return client
}

func TestCreateClientAssignsIDAndIsRetrievable(t *testing.T) {
	repo := newFakeClientRepo()
	svc := newTestClientService(repo)

	created, err := svc.CreateClient(validCreateRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Nil(t, created.DateOfBirth)
	assert.Nil(t, created.Phone)

	fetched, err := svc.GetClientByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, fetched)

	second := mustCreate(t, svc, "Second Client")
	assert.Equal(t, int64(2), second.ID, "ids must be unique and sequential")
}

func TestCreateClientInvalidInputLeavesStoreUnchanged(t *testing.T) {
	repo := newFakeClientRepo()
	svc := newTestClientService(repo)

	req := validCreateRequest()
	req.Age = json.Number("150")

	_, err := svc.CreateClient(req)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Empty(t, repo.clients, "rejected create must not touch the store")
}

func TestGetClientsOrdersByIDDescending(t *testing.T) {
	repo := newFakeClientRepo()
	svc := newTestClientService(repo)

	mustCreate(t, svc, "first")
	mustCreate(t, svc, "second")
	mustCreate(t, svc, "third")

	clients, err := svc.GetClients()
	require.NoError(t, err)
	require.Len(t, clients, 3)
	assert.Equal(t, []int64{3, 2, 1}, []int64{clients[0].ID, clients[1].ID, clients[2].ID})
}

func TestUpdateClientNotFound(t *testing.T) {
	repo := newFakeClientRepo()
	svc := newTestClientService(repo)

	req := UpdateClientRequest{ID: json.Number("9999"), CreateClientRequest: validCreateRequest()}
	_, err := svc.UpdateClient(req)
	assert.ErrorIs(t, err, ErrClientNotFound)
	assert.Empty(t, repo.clients, "failed update must not create a row")
}

func TestUpdateClientNoChanges(t *testing.T) {
	repo := newFakeClientRepo()
	svc := newTestClientService(repo)
	created := mustCreate(t, svc, "Jane Doe")

	req := UpdateClientRequest{
		ID:                  json.Number("1"),
		CreateClientRequest: validCreateRequest(),
	}
	_, err := svc.UpdateClient(req)
	assert.ErrorIs(t, err, ErrNoChanges)

	unchanged, err := svc.GetClientByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, unchanged)
}

func TestUpdateClientReValidatesAndReadsBack(t *testing.T) {
	repo := newFakeClientRepo()
	svc := newTestClientService(repo)
	mustCreate(t, svc, "Jane Doe")

	bad := UpdateClientRequest{ID: json.Number("1"), CreateClientRequest: validCreateRequest()}
	bad.Gender = "female"
	_, err := svc.UpdateClient(bad)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "Invalid gender value", vErr.Message)

	good := UpdateClientRequest{ID: json.Number("1"), CreateClientRequest: validCreateRequest()}
	good.Location = "Mandalay"
	updated, err := svc.UpdateClient(good)
	require.NoError(t, err)
	assert.Equal(t, "Mandalay", updated.Location)
	assert.Equal(t, int64(1), updated.ID, "id is immutable")
}

func TestDeleteClientsRenumbersSmallDeletions(t *testing.T) {
	repo := newFakeClientRepo()
	svc := newTestClientService(repo)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		mustCreate(t, svc, name)
	}

	result, err := svc.DeleteClients([]int64{2, 4, 5})
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.DeletedCount)
	assert.True(t, result.IDsReordered)
	assert.False(t, result.ReorderSkipped)
	assert.Equal(t, models.RenumberCommitted, result.Renumber.Status)
	assert.Equal(t, 2, result.Renumber.Rows)

	// Survivors (original ids 1 and 3) become 1 and 2 in that relative order.
	clients, err := svc.GetClients()
	require.NoError(t, err)
	require.Len(t, clients, 2)
	assert.Equal(t, int64(2), clients[0].ID)
	assert.Equal(t, "c", clients[0].Name)
	assert.Equal(t, int64(1), clients[1].ID)
	assert.Equal(t, "a", clients[1].Name)
}

func TestDeleteClientsLargeDeletionSkipsRenumbering(t *testing.T) {
	repo := newFakeClientRepo()
	svc := NewClientService(repo, nil, RenumberConfig{TriggerMax: 10, RowCap: 100})
	for i := 0; i < 15; i++ {
		mustCreate(t, svc, "client")
	}

	ids := make([]int64, 0, 11)
	for id := int64(1); id <= 11; id++ {
		ids = append(ids, id)
	}
	result, err := svc.DeleteClients(ids)
	require.NoError(t, err)
	assert.Equal(t, int64(11), result.DeletedCount)
	assert.False(t, result.IDsReordered)
	assert.True(t, result.ReorderSkipped)
	assert.Equal(t, models.RenumberIdle, result.Renumber.Status)

	// Original ids of survivors untouched, gaps tolerated.
	assert.Equal(t, []int64{12, 13, 14, 15}, repo.sortedIDs())
}

func TestDeleteClientsRowCapAbortsRenumbering(t *testing.T) {
	repo := newFakeClientRepo()
	svc := NewClientService(repo, nil, RenumberConfig{TriggerMax: 10, RowCap: 3})
	for i := 0; i < 5; i++ {
		mustCreate(t, svc, "client")
	}

	result, err := svc.DeleteClients([]int64{3})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.DeletedCount)
	assert.False(t, result.IDsReordered)
	assert.False(t, result.ReorderSkipped, "cap abort is not the large-deletion skip")
	assert.Equal(t, models.RenumberSkipped, result.Renumber.Status)
	assert.Equal(t, 4, result.Renumber.Rows)

	// Rollback: original ids left untouched.
	assert.Equal(t, []int64{1, 2, 4, 5}, repo.sortedIDs())
}

func TestDeleteClientsRenumberFailureDoesNotFailDeletion(t *testing.T) {
	repo := newFakeClientRepo()
	svc := newTestClientService(repo)
	for i := 0; i < 3; i++ {
		mustCreate(t, svc, "client")
	}
	repo.reorderErr = errors.New("connection reset")

	result, err := svc.DeleteClients([]int64{2})
	require.NoError(t, err, "a deletion must never be rolled back because renumbering failed")
	assert.Equal(t, int64(1), result.DeletedCount)
	assert.False(t, result.IDsReordered)
	assert.Equal(t, models.RenumberRolledBack, result.Renumber.Status)
}

func TestDeleteClientsNothingFound(t *testing.T) {
	repo := newFakeClientRepo()
	svc := newTestClientService(repo)
	mustCreate(t, svc, "only")

	_, err := svc.DeleteClients([]int64{41, 42})
	assert.ErrorIs(t, err, ErrNoClientsDeleted)
	assert.Len(t, repo.clients, 1)
}

func TestDeleteClientsPartialMatchReportsActualCount(t *testing.T) {
	repo := newFakeClientRepo()
	svc := newTestClientService(repo)
	for i := 0; i < 3; i++ {
		mustCreate(t, svc, "client")
	}

	result, err := svc.DeleteClients([]int64{1, 99})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.DeletedCount)
}
