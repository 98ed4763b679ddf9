package repository

import (
	"encoding/json"
	"testing"
	"time"

	"irs-backend/internal/app/ds"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Тесты идут на sqlite in-memory. Процедуры generate_project_milestones
// там нет, поэтому шаг генерации этапов при одобрении всегда пропускается -
// это заодно проверяет деградацию пост-обработки.

func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	repo, err := NewWithDB(db)
	require.NoError(t, err)
	return repo
}

func seedUsers(t *testing.T, r *Repository) (client, staff *ds.User) {
	t.Helper()

	client, err := r.CreateUser("nsventures", "hash", "Erin Walsh", "erin@example.com", "North Sea Ventures", 0)
	require.NoError(t, err)

	staff, err = r.CreateUser("operator", "hash", "Jo Berg", "jo@example.com", "", 1)
	require.NoError(t, err)
	return client, staff
}

func submitSupplyRequest(t *testing.T, r *Repository, clientID uint) *ds.ServiceRequest {
	t.Helper()

	details := ds.JSONB(`{"origin":"Aberdeen","destination":"Platform Delta-7","cargo_type":"drilling mud","quantity":10}`)
	req, err := r.CreateServiceRequest(clientID, ds.ServiceTypeSupply, details)
	require.NoError(t, err)
	return req
}

func TestCreateServiceRequest(t *testing.T) {
	r := newTestRepository(t)
	client, _ := seedUsers(t, r)

	req := submitSupplyRequest(t, r, client.ID)
	assert.Equal(t, ds.RequestStatusPending, req.Status)
	assert.Equal(t, ds.ServiceTypeSupply, req.ServiceType)

	_, err := r.CreateServiceRequest(client.ID, "catering", nil)
	assert.Error(t, err)

	_, err = r.CreateServiceRequest(client.ID, ds.ServiceTypeSupply, ds.JSONB(`{broken`))
	assert.Error(t, err)
}

func TestOpenReviewFlipsPendingOnly(t *testing.T) {
	r := newTestRepository(t)
	client, _ := seedUsers(t, r)
	req := submitSupplyRequest(t, r, client.ID)

	require.NoError(t, r.OpenReview(req.ID))

	got, err := r.GetRequestByID(req.ID)
	require.NoError(t, err)
	assert.Equal(t, ds.RequestStatusInProgress, got.Status)

	// Повторное открытие ничего не меняет
	require.NoError(t, r.OpenReview(req.ID))
	got, err = r.GetRequestByID(req.ID)
	require.NoError(t, err)
	assert.Equal(t, ds.RequestStatusInProgress, got.Status)
}

func TestApproveMaterializesProject(t *testing.T) {
	r := newTestRepository(t)
	client, staff := seedUsers(t, r)
	req := submitSupplyRequest(t, r, client.ID)
	require.NoError(t, r.OpenReview(req.ID))

	req, err := r.GetRequestByID(req.ID)
	require.NoError(t, err)

	endDate := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	project, skipped, err := r.MaterializeProject(req, 50000, endDate, staff.ID)
	require.NoError(t, err)
	require.NoError(t, r.MarkRequestApproved(req.ID, staff.ID))

	assert.Equal(t, client.ID, project.ClientID)
	assert.Equal(t, "Supply service for North Sea Ventures", project.Name)
	assert.Equal(t, 50000.0, project.ContractValue)
	require.NotNil(t, project.EndDate)
	assert.Equal(t, "2026-04-01", project.EndDate.Format("2006-01-02"))
	require.NotNil(t, project.ServiceRequestID)
	assert.Equal(t, req.ID, *project.ServiceRequestID)
	assert.NotEmpty(t, project.TrackingCode)

	// Заготовка metadata по виду услуги
	var meta map[string]string
	require.NoError(t, json.Unmarshal(project.Metadata, &meta))
	assert.Equal(t, "Waiting for details", meta["origin"])
	assert.Equal(t, "Waiting for details", meta["destination"])
	assert.Equal(t, "Pending Assignment", meta["vessel"])

	// На sqlite процедура этапов недоступна - шаг пропущен и это видно
	assert.Contains(t, skipped, SetupStepMilestones)
	assert.Equal(t, ds.SetupStatusNeedsAttention, project.SetupStatus)

	// В ленте есть клиентская запись project_created
	updates, err := r.GetProjectUpdates(project.ID, true)
	require.NoError(t, err)
	require.Len(t, updates, 1)
	assert.Equal(t, ds.UpdateTypeProjectCreated, updates[0].UpdateType)

	got, err := r.GetRequestByID(req.ID)
	require.NoError(t, err)
	assert.Equal(t, ds.RequestStatusApproved, got.Status)
	require.NotNil(t, got.ReviewedBy)
	assert.Equal(t, staff.ID, *got.ReviewedBy)
}

func TestDoubleApproveConflicts(t *testing.T) {
	r := newTestRepository(t)
	client, staff := seedUsers(t, r)
	req := submitSupplyRequest(t, r, client.ID)
	require.NoError(t, r.OpenReview(req.ID))

	req, err := r.GetRequestByID(req.ID)
	require.NoError(t, err)

	endDate := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	_, _, err = r.MaterializeProject(req, 50000, endDate, staff.ID)
	require.NoError(t, err)

	// Второе одобрение той же заявки упирается в уникальный индекс
	_, _, err = r.MaterializeProject(req, 60000, endDate, staff.ID)
	assert.ErrorIs(t, err, ErrAlreadyApproved)
}

func TestRejectLeavesNoProject(t *testing.T) {
	r := newTestRepository(t)
	client, staff := seedUsers(t, r)
	req := submitSupplyRequest(t, r, client.ID)
	require.NoError(t, r.OpenReview(req.ID))

	require.NoError(t, r.RejectRequest(req.ID, staff.ID))

	got, err := r.GetRequestByID(req.ID)
	require.NoError(t, err)
	assert.Equal(t, ds.RequestStatusRejected, got.Status)

	_, err = r.GetProjectByRequestID(req.ID)
	assert.Error(t, err)

	// Терминальный статус: повторное решение невозможно
	assert.ErrorIs(t, r.MarkRequestApproved(req.ID, staff.ID), ErrInvalidTransition)
	assert.ErrorIs(t, r.RejectRequest(req.ID, staff.ID), ErrInvalidTransition)
}

func TestDecisionRequiresOpenedRequest(t *testing.T) {
	r := newTestRepository(t)
	client, staff := seedUsers(t, r)
	req := submitSupplyRequest(t, r, client.ID)

	// Заявка еще pending - решения по ней не принимаются
	assert.ErrorIs(t, r.MarkRequestApproved(req.ID, staff.ID), ErrInvalidTransition)
	assert.ErrorIs(t, r.RejectRequest(req.ID, staff.ID), ErrInvalidTransition)
	assert.ErrorIs(t, r.RequestInfo(req.ID, staff.ID, "note"), ErrInvalidTransition)
}

func TestInfoRequestRoundTrip(t *testing.T) {
	r := newTestRepository(t)
	client, staff := seedUsers(t, r)
	req := submitSupplyRequest(t, r, client.ID)
	require.NoError(t, r.OpenReview(req.ID))

	require.NoError(t, r.RequestInfo(req.ID, staff.ID, "Please specify the cargo weight"))

	got, err := r.GetRequestByID(req.ID)
	require.NoError(t, err)
	assert.Equal(t, ds.RequestStatusInfoRequested, got.Status)
	assert.Equal(t, "Please specify the cargo weight", got.AdminNotes)

	// Чужой клиент ответить не может
	assert.ErrorIs(t, r.RespondToRequest(req.ID, client.ID+100, "12 tons"), ErrInvalidTransition)

	require.NoError(t, r.RespondToRequest(req.ID, client.ID, "12 tons"))

	got, err = r.GetRequestByID(req.ID)
	require.NoError(t, err)
	assert.Equal(t, ds.RequestStatusPending, got.Status)
	assert.Equal(t, "12 tons", got.ClientResponse)
	assert.NotNil(t, got.ClientRespondedAt)
}

func TestCancelRequest(t *testing.T) {
	r := newTestRepository(t)
	client, _ := seedUsers(t, r)
	req := submitSupplyRequest(t, r, client.ID)

	require.NoError(t, r.CancelRequest(req.ID, client.ID))

	got, err := r.GetRequestByID(req.ID)
	require.NoError(t, err)
	assert.Equal(t, ds.RequestStatusCancelled, got.Status)

	// Из in_progress отозвать уже нельзя
	req2 := submitSupplyRequest(t, r, client.ID)
	require.NoError(t, r.OpenReview(req2.ID))
	assert.ErrorIs(t, r.CancelRequest(req2.ID, client.ID), ErrInvalidTransition)
}

func approvedProject(t *testing.T, r *Repository) (*ds.Project, *ds.User, *ds.User) {
	t.Helper()

	client, staff := seedUsers(t, r)
	req := submitSupplyRequest(t, r, client.ID)
	require.NoError(t, r.OpenReview(req.ID))

	req, err := r.GetRequestByID(req.ID)
	require.NoError(t, err)

	endDate := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	project, _, err := r.MaterializeProject(req, 50000, endDate, staff.ID)
	require.NoError(t, err)
	require.NoError(t, r.MarkRequestApproved(req.ID, staff.ID))
	return project, client, staff
}

func TestMilestoneToggleIsReversible(t *testing.T) {
	r := newTestRepository(t)
	project, _, staff := approvedProject(t, r)

	m1, err := r.AddCustomMilestone(project.ID, "Loading", "", nil)
	require.NoError(t, err)
	m2, err := r.AddCustomMilestone(project.ID, "Transit", "", nil)
	require.NoError(t, err)
	assert.Greater(t, m2.SortOrder, m1.SortOrder)

	assert.Equal(t, 0, r.GetProjectProgress(project.ID))

	toggled, err := r.ToggleMilestone(m1.ID, staff.ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsCompleted)
	assert.NotNil(t, toggled.CompletedAt)
	require.NotNil(t, toggled.CompletedBy)
	assert.Equal(t, staff.ID, *toggled.CompletedBy)
	assert.Equal(t, ds.MilestoneStatusCompleted, toggled.Status)
	assert.Equal(t, 50, r.GetProjectProgress(project.ID))

	// Повторное переключение возвращает исходное состояние
	toggled, err = r.ToggleMilestone(m1.ID, staff.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsCompleted)
	assert.Nil(t, toggled.CompletedAt)
	assert.Nil(t, toggled.CompletedBy)
	assert.Equal(t, ds.MilestoneStatusPending, toggled.Status)
	assert.Equal(t, 0, r.GetProjectProgress(project.ID))
}

func TestUpdateProjectRecordsContractChanges(t *testing.T) {
	r := newTestRepository(t)
	project, _, staff := approvedProject(t, r)

	before, err := r.CountProjectUpdates(project.ID)
	require.NoError(t, err)

	newValue := 75000.0
	newName := "Renamed project"
	require.NoError(t, r.UpdateProject(project.ID, staff.ID, UpdateProjectParams{
		Name:          &newName,
		ContractValue: &newValue,
	}))

	got, err := r.GetProjectByID(project.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed project", got.Name)
	assert.Equal(t, 75000.0, got.ContractValue)

	after, err := r.CountProjectUpdates(project.ID)
	require.NoError(t, err)
	assert.Equal(t, before+1, after)

	updates, err := r.GetProjectUpdates(project.ID, false)
	require.NoError(t, err)
	assert.Equal(t, ds.UpdateTypeContractUpdate, updates[0].UpdateType)

	// Правка без изменения условий контракта ленту не трогает
	desc := "Internal note"
	require.NoError(t, r.UpdateProject(project.ID, staff.ID, UpdateProjectParams{Description: &desc}))
	final, err := r.CountProjectUpdates(project.ID)
	require.NoError(t, err)
	assert.Equal(t, after, final)
}

func TestLatestContractAndValueReset(t *testing.T) {
	r := newTestRepository(t)
	project, _, staff := approvedProject(t, r)

	_, err := r.CreateProjectDocument(project.ID, ds.ContractTitlePrefix+project.Name,
		"", "1/contracts/a.html", "text/html", 100, ds.VisibilityClient, staff.ID)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	second, err := r.CreateProjectDocument(project.ID, ds.ContractTitlePrefix+project.Name,
		"", "1/contracts/b.html", "text/html", 120, ds.VisibilityClient, staff.ID)
	require.NoError(t, err)

	latest, err := r.GetLatestContract(project.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)

	require.NoError(t, r.DeleteProjectDocument(latest.ID))
	require.NoError(t, r.ClearContractValue(project.ID))

	got, err := r.GetProjectByID(project.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.ContractValue)

	// Остался первый контракт, он снова текущий
	latest, err = r.GetLatestContract(project.ID)
	require.NoError(t, err)
	assert.Equal(t, "1/contracts/a.html", latest.StorageKey)
}

func TestDocumentVisibilityFilter(t *testing.T) {
	r := newTestRepository(t)
	project, _, staff := approvedProject(t, r)

	_, err := r.CreateProjectDocument(project.ID, "Internal survey", "", "k1", "application/pdf", 10, ds.VisibilityInternal, staff.ID)
	require.NoError(t, err)
	_, err = r.CreateProjectDocument(project.ID, "Client report", "", "k2", "application/pdf", 10, ds.VisibilityClient, staff.ID)
	require.NoError(t, err)

	all, err := r.GetProjectDocuments(project.ID, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	visible, err := r.GetProjectDocuments(project.ID, true)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, "Client report", visible[0].Title)
}

func TestShareDocumentDeduplicates(t *testing.T) {
	r := newTestRepository(t)
	client, staff := seedUsers(t, r)

	doc, err := r.CreateInternalDocument("Safety certificate", "", "Certificate",
		"certificate/1.pdf", "application/pdf", 2048, false, staff.ID)
	require.NoError(t, err)

	_, err = r.CreateInternalDocument("Bad category", "", "Misc", "k", "", 0, false, staff.ID)
	assert.Error(t, err)

	share, err := r.ShareDocumentWithClient(doc.ID, client.ID, "annual audit", staff.ID)
	require.NoError(t, err)
	assert.Equal(t, client.ID, share.ClientID)

	// Повторная выдача той же пары отсекается индексом
	_, err = r.ShareDocumentWithClient(doc.ID, client.ID, "again", staff.ID)
	assert.ErrorIs(t, err, ErrAlreadyShared)

	count, err := r.CountDocumentShares(doc.ID, client.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	shared, err := r.GetSharedDocumentsForClient(client.ID)
	require.NoError(t, err)
	require.Len(t, shared, 1)
	assert.Equal(t, "Safety certificate", shared[0].Document.Title)

	require.NoError(t, r.RevokeShare(doc.ID, client.ID))
	assert.Error(t, r.RevokeShare(doc.ID, client.ID))

	// После отзыва документ можно выдать снова
	_, err = r.ShareDocumentWithClient(doc.ID, client.ID, "re-granted", staff.ID)
	require.NoError(t, err)
}

func TestDeleteInternalDocumentCascadesShares(t *testing.T) {
	r := newTestRepository(t)
	client, staff := seedUsers(t, r)

	doc, err := r.CreateInternalDocument("Policy", "", "Policy", "policy/1.pdf", "application/pdf", 10, true, staff.ID)
	require.NoError(t, err)

	_, err = r.ShareDocumentWithClient(doc.ID, client.ID, "", staff.ID)
	require.NoError(t, err)

	require.NoError(t, r.DeleteInternalDocument(doc.ID))

	shared, err := r.GetSharedDocumentsForClient(client.ID)
	require.NoError(t, err)
	assert.Empty(t, shared)
}

func TestRequestFilters(t *testing.T) {
	r := newTestRepository(t)
	client, staff := seedUsers(t, r)

	req1 := submitSupplyRequest(t, r, client.ID)
	req2 := submitSupplyRequest(t, r, client.ID)
	require.NoError(t, r.OpenReview(req2.ID))
	require.NoError(t, r.RejectRequest(req2.ID, staff.ID))

	pending, err := r.GetRequests(ds.RequestStatusPending, "", nil, nil, nil)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, req1.ID, pending[0].ID)

	mine, err := r.GetRequests("", "", nil, nil, &client.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	other := client.ID + 100
	none, err := r.GetRequests("", "", nil, nil, &other)
	require.NoError(t, err)
	assert.Empty(t, none)
}
