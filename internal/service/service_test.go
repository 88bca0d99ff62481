package service

import (
	"context"
	"testing"
	"time"

	"github.com/lsandon/fertiviltro-app/internal/config"
	"github.com/lsandon/fertiviltro-app/internal/db"
	"github.com/lsandon/fertiviltro-app/internal/domain"
	"github.com/lsandon/fertiviltro-app/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	admin    = domain.Identity{Username: "admin", Role: domain.RoleAdmin}
	ana      = domain.Identity{Username: "Ana", Role: domain.RoleClient}
	stranger = domain.Identity{Username: "ghost", Role: domain.RoleClient}
	fixedNow = func() time.Time { return time.Date(2024, 3, 9, 15, 4, 5, 0, time.UTC) }
)

type fixture struct {
	ctx        context.Context
	users      UserService
	auth       AuthService
	clients    ClientService
	processes  ProcessService
	claims     ClaimService
	donors     DonorService
	recipients RecipientService
	dashboard  DashboardService
	exports    ExportService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := repository.NewStore(db.NewMemory(), nil)
	clientRepo := repository.NewClientRepository(store)
	processRepo := repository.NewProcessRepository(store)
	claimRepo := repository.NewClaimRepository(store)
	userRepo := repository.NewUserRepository(store)

	f := &fixture{
		ctx:   context.Background(),
		users: UserService{Users: userRepo},
		auth: AuthService{
			Config: config.Config{JWTSecret: "test-secret", AccessTokenTTL: time.Hour},
			Users:  userRepo,
		},
		clients:    ClientService{Clients: clientRepo, Processes: processRepo, Claims: claimRepo},
		processes:  ProcessService{Processes: processRepo, Clients: clientRepo, Now: fixedNow},
		claims:     ClaimService{Claims: claimRepo, Clients: clientRepo, Now: fixedNow},
		donors:     DonorService{Donors: repository.NewDonorRepository(store), Clients: clientRepo},
		recipients: RecipientService{Recipients: repository.NewRecipientRepository(store), Clients: clientRepo},
		dashboard:  DashboardService{Clients: clientRepo, Processes: processRepo, Claims: claimRepo},
	}
	f.exports = ExportService{Clients: f.clients, Processes: f.processes}
	return f
}

func (f *fixture) client(t *testing.T, name string) domain.Client {
	t.Helper()
	c, err := f.clients.Create(f.ctx, admin, ClientInput{
		Name: name, Email: name + "@example.com", Phone: "300", Region: "Antioquia", Municipality: "Rionegro",
	})
	require.NoError(t, err)
	return *c
}

func (f *fixture) process(t *testing.T, clientID int64) domain.Process {
	t.Helper()
	p, err := f.processes.Create(f.ctx, admin, ProcessInput{ClientID: clientID})
	require.NoError(t, err)
	return *p
}

func (f *fixture) storedClient(t *testing.T, id int64) domain.Client {
	t.Helper()
	c, err := f.clients.Get(f.ctx, admin, id)
	require.NoError(t, err)
	return *c
}

func TestResolveScope(t *testing.T) {
	clients := []domain.Client{{ID: 1, Name: "Ana"}, {ID: 2, Name: "Luis"}}
	other := int64(2)
	own := int64(1)

	s, err := ResolveScope(admin, clients, nil)
	require.NoError(t, err)
	assert.True(t, s.All)

	s, err = ResolveScope(admin, clients, &other)
	require.NoError(t, err)
	assert.True(t, s.Allows(2))
	assert.False(t, s.Allows(1))

	s, err = ResolveScope(ana, clients, nil)
	require.NoError(t, err)
	assert.Equal(t, Scope{ClientID: 1}, s)

	s, err = ResolveScope(ana, clients, &other)
	require.NoError(t, err)
	assert.False(t, s.Allows(1))
	assert.False(t, s.Allows(2))

	s, err = ResolveScope(ana, clients, &own)
	require.NoError(t, err)
	assert.True(t, s.Allows(1))

	_, err = ResolveScope(stranger, clients, nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.EqualError(t, err, "no client linked to this account")

	_, err = ResolveScope(domain.Identity{Username: "x", Role: "vet"}, clients, nil)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestPermissionTable(t *testing.T) {
	for _, res := range []Resource{ResourceClients, ResourceProcesses, ResourceDonors, ResourceRecipients} {
		assert.True(t, Can(domain.RoleClient, res, ActionRead), res)
		for _, act := range []Action{ActionCreate, ActionUpdate, ActionDelete} {
			assert.True(t, Can(domain.RoleAdmin, res, act), "%s %s", res, act)
			assert.False(t, Can(domain.RoleClient, res, act), "%s %s", res, act)
		}
	}
	assert.False(t, Can(domain.RoleClient, ResourceStages, ActionUpdate))
	assert.True(t, Can(domain.RoleClient, ResourceClaims, ActionCreate))
	assert.False(t, Can(domain.RoleClient, ResourceClaims, ActionUpdate))
	assert.False(t, Can(domain.RoleClient, ResourceClaims, ActionDelete))
	assert.False(t, Can(domain.RoleClient, ResourceUsers, ActionRead))
	assert.False(t, Can(domain.RoleClient, ResourceExports, ActionRead))
	assert.False(t, Can("", ResourceClients, ActionRead))
}

func TestClientCreateDefaultsAndValidation(t *testing.T) {
	f := newFixture(t)
	c := f.client(t, "Ana")
	assert.Equal(t, int64(1), c.ID)
	assert.Equal(t, "Individual", c.ClientType)
	assert.Equal(t, domain.StatusNew, c.ProcessStatus)

	_, err := f.clients.Create(f.ctx, admin, ClientInput{Name: "Sin email"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.clients.Create(f.ctx, ana, ClientInput{Name: "x"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestDeletedIDsAreNeverReused(t *testing.T) {
	f := newFixture(t)
	first := f.client(t, "A")
	second := f.client(t, "B")
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)

	require.NoError(t, f.clients.Delete(f.ctx, admin, second.ID))
	assert.Equal(t, int64(3), f.client(t, "C").ID)

	p := f.process(t, first.ID)
	require.NoError(t, f.processes.Delete(f.ctx, admin, p.ID))
	assert.Equal(t, p.ID+1, f.process(t, first.ID).ID)

	c, err := f.claims.Create(f.ctx, admin, ClaimInput{ClientID: first.ID, Subject: "x"})
	require.NoError(t, err)
	require.NoError(t, f.claims.Delete(f.ctx, admin, c.ID))
	again, err := f.claims.Create(f.ctx, admin, ClaimInput{ClientID: first.ID, Subject: "y"})
	require.NoError(t, err)
	assert.Equal(t, c.ID+1, again.ID)
}

func TestClientNamesAreUnique(t *testing.T) {
	f := newFixture(t)
	a := f.client(t, "Ana")
	l := f.client(t, "Luis")

	_, err := f.clients.Create(f.ctx, admin, ClientInput{
		Name: "Ana", Email: "otra@example.com", Phone: "1", Region: "R", Municipality: "M",
	})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = f.clients.Update(f.ctx, admin, l.ID, ClientInput{Name: "Ana"})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, "Luis", f.storedClient(t, l.ID).Name)

	same, err := f.clients.Update(f.ctx, admin, a.ID, ClientInput{Name: "Ana", Farm: "El Roble"})
	require.NoError(t, err, "keeping its own name is not a conflict")
	assert.Equal(t, "El Roble", same.Farm)
}

func TestUnknownClientIsRejected(t *testing.T) {
	f := newFixture(t)
	a := f.client(t, "Ana")

	_, err := f.claims.Create(f.ctx, admin, ClaimInput{ClientID: 999, Subject: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.donors.Create(f.ctx, admin, DonorInput{ClientID: 999, Code: "D1", Breed: "Gyr", Age: 2})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.recipients.Create(f.ctx, admin, RecipientInput{ClientID: 999, Code: "R1"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	c, err := f.claims.Create(f.ctx, admin, ClaimInput{ClientID: a.ID, Subject: "x"})
	require.NoError(t, err)
	_, err = f.claims.Update(f.ctx, admin, c.ID, ClaimInput{ClientID: 999})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	d, err := f.donors.Create(f.ctx, admin, DonorInput{ClientID: a.ID, Code: "D1", Breed: "Gyr", Age: 2})
	require.NoError(t, err)
	_, err = f.donors.Update(f.ctx, admin, d.ID, DonorInput{ClientID: 999})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	r, err := f.recipients.Create(f.ctx, admin, RecipientInput{ClientID: a.ID, Code: "R1"})
	require.NoError(t, err)
	_, err = f.recipients.Update(f.ctx, admin, r.ID, RecipientInput{ClientID: 999})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	claims, err := f.claims.List(f.ctx, admin, nil)
	require.NoError(t, err)
	require.Len(t, claims, 1)
	assert.Equal(t, a.ID, claims[0].ClientID)
}

func TestClientUpdateKeepsStoredValuesForEmptyFields(t *testing.T) {
	f := newFixture(t)
	c := f.client(t, "Ana")
	updated, err := f.clients.Update(f.ctx, admin, c.ID, ClientInput{Farm: "La Esperanza", DesiredEmbryos: 0})
	require.NoError(t, err)
	assert.Equal(t, "La Esperanza", updated.Farm)
	assert.Equal(t, "Ana", updated.Name)
	assert.Equal(t, "Ana@example.com", updated.Email)

	_, err = f.clients.Update(f.ctx, admin, 99, ClientInput{Name: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClientScopedReads(t *testing.T) {
	f := newFixture(t)
	a := f.client(t, "Ana")
	l := f.client(t, "Luis")

	list, err := f.clients.List(f.ctx, ana, nil)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, a.ID, list[0].ID)

	_, err = f.clients.Get(f.ctx, ana, l.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	all, err := f.clients.List(f.ctx, admin, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, l.ID, all[0].ID, "sorted by id descending")

	_, err = f.clients.List(f.ctx, stranger, nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClientDeleteCascadesProcessesAndClaims(t *testing.T) {
	f := newFixture(t)
	a := f.client(t, "Ana")
	l := f.client(t, "Luis")
	f.process(t, a.ID)
	f.process(t, l.ID)
	_, err := f.claims.Create(f.ctx, admin, ClaimInput{ClientID: a.ID, Subject: "Retraso"})
	require.NoError(t, err)
	_, err = f.donors.Create(f.ctx, admin, DonorInput{ClientID: a.ID, Code: "D1", Breed: "Gyr", Age: 4})
	require.NoError(t, err)
	_, err = f.recipients.Create(f.ctx, admin, RecipientInput{ClientID: a.ID, Code: "R1"})
	require.NoError(t, err)

	require.NoError(t, f.clients.Delete(f.ctx, admin, a.ID))

	processes, err := f.processes.List(f.ctx, admin, nil)
	require.NoError(t, err)
	require.Len(t, processes, 1)
	assert.Equal(t, l.ID, processes[0].ClientID)

	claims, err := f.claims.List(f.ctx, admin, nil)
	require.NoError(t, err)
	assert.Empty(t, claims)

	donors, err := f.donors.List(f.ctx, admin, nil)
	require.NoError(t, err)
	require.Len(t, donors, 1, "donors are not cascaded")
	assert.Equal(t, "Desconocido", donors[0].ClientName)

	recipients, err := f.recipients.List(f.ctx, admin, nil)
	require.NoError(t, err)
	assert.Len(t, recipients, 1, "recipients are not cascaded")

	assert.ErrorIs(t, f.clients.Delete(f.ctx, admin, a.ID), domain.ErrNotFound)
}

func TestProcessCreateUsesTemplate(t *testing.T) {
	f := newFixture(t)
	a := f.client(t, "Ana")
	p := f.process(t, a.ID)
	require.Len(t, p.Stages, domain.StageCount)
	for i, st := range p.Stages {
		assert.Equal(t, i+1, st.ID)
		assert.Equal(t, domain.StagePending, st.Status)
	}
	assert.Equal(t, "Pendiente", p.ManualStatus)
	assert.Equal(t, domain.StatusPending, f.storedClient(t, a.ID).ProcessStatus)

	_, err := f.processes.Create(f.ctx, admin, ProcessInput{ClientID: 42})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.processes.Create(f.ctx, admin, ProcessInput{})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestStageUpdateRecomputesStatuses(t *testing.T) {
	f := newFixture(t)
	a := f.client(t, "Ana")
	p := f.process(t, a.ID)

	st, err := f.processes.UpdateStage(f.ctx, admin, p.ID, 2, StageInput{Status: domain.StageInProgress})
	require.NoError(t, err)
	assert.Equal(t, domain.StageInProgress, st.Status)
	assert.Equal(t, "2024-03-09", st.StartDate)
	assert.Equal(t, "Aspiración de ovocitos", st.Name)

	view, err := f.processes.Get(f.ctx, admin, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, view.ProcessStatus)
	assert.Equal(t, "Ana", view.ClientName)
	assert.Equal(t, domain.StatusInProgress, f.storedClient(t, a.ID).ProcessStatus)

	for id := 1; id <= domain.StageCount; id++ {
		_, err := f.processes.UpdateStage(f.ctx, admin, p.ID, id, StageInput{Status: domain.StageCompleted})
		require.NoError(t, err)
	}
	view, err = f.processes.Get(f.ctx, admin, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, view.ProcessStatus)
	assert.Equal(t, domain.StatusCompleted, f.storedClient(t, a.ID).ProcessStatus)
	assert.Equal(t, "2024-03-09", view.Stages[0].ActualDate)
	assert.Equal(t, "2024-03-09", view.Stages[1].StartDate, "fecha_inicio survives later edits")
}

func TestStageUpdateKeepsDatesAndValidates(t *testing.T) {
	f := newFixture(t)
	a := f.client(t, "Ana")
	p := f.process(t, a.ID)

	_, err := f.processes.UpdateStage(f.ctx, admin, p.ID, 3, StageInput{ActualDate: "2024-01-01", EstimatedDate: "2024-01-02"})
	require.NoError(t, err)
	st, err := f.processes.UpdateStage(f.ctx, admin, p.ID, 3, StageInput{Status: domain.StageCompleted})
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", st.ActualDate)
	assert.Equal(t, "2024-01-02", st.EstimatedDate)

	_, err = f.processes.UpdateStage(f.ctx, admin, p.ID, 3, StageInput{Status: "Terminada"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = f.processes.UpdateStage(f.ctx, admin, p.ID, 13, StageInput{Notes: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.processes.UpdateStage(f.ctx, admin, 77, 1, StageInput{Notes: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.processes.UpdateStage(f.ctx, ana, p.ID, 1, StageInput{Notes: "x"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestProcessReassignAndDeleteRefreshClients(t *testing.T) {
	f := newFixture(t)
	a := f.client(t, "Ana")
	l := f.client(t, "Luis")
	p := f.process(t, a.ID)
	_, err := f.processes.UpdateStage(f.ctx, admin, p.ID, 1, StageInput{Status: domain.StageCancelled})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, f.storedClient(t, a.ID).ProcessStatus)

	moved, err := f.processes.Update(f.ctx, admin, p.ID, ProcessInput{ClientID: l.ID})
	require.NoError(t, err)
	assert.Equal(t, l.ID, moved.ClientID)
	assert.Equal(t, "Pendiente", moved.ManualStatus)
	assert.Equal(t, domain.StatusNew, f.storedClient(t, a.ID).ProcessStatus)
	assert.Equal(t, domain.StatusCancelled, f.storedClient(t, l.ID).ProcessStatus)

	require.NoError(t, f.processes.Delete(f.ctx, admin, p.ID))
	assert.Equal(t, domain.StatusNew, f.storedClient(t, l.ID).ProcessStatus)
	assert.ErrorIs(t, f.processes.Delete(f.ctx, admin, p.ID), domain.ErrNotFound)
}

func TestClaimLifecycle(t *testing.T) {
	f := newFixture(t)
	a := f.client(t, "Ana")
	l := f.client(t, "Luis")

	c, err := f.claims.Create(f.ctx, ana, ClaimInput{ClientID: l.ID, Subject: "Factura", Reason: "Cobro doble"})
	require.NoError(t, err)
	assert.Equal(t, a.ID, c.ClientID, "clients always file for themselves")
	assert.Equal(t, domain.ClaimOpen, c.Status)
	assert.Equal(t, fixedNow(), c.CreatedAt)

	_, err = f.claims.Create(f.ctx, admin, ClaimInput{Subject: "sin cliente"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = f.claims.Create(f.ctx, stranger, ClaimInput{Subject: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.claims.Update(f.ctx, ana, c.ID, ClaimInput{Response: "x"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	updated, err := f.claims.Update(f.ctx, admin, c.ID, ClaimInput{Status: domain.ClaimResponded, Response: "Corregido"})
	require.NoError(t, err)
	assert.Equal(t, "Corregido", updated.Response)
	assert.Equal(t, "Factura", updated.Subject)
	assert.Equal(t, c.CreatedAt, updated.CreatedAt)

	list, err := f.claims.List(f.ctx, ana, nil)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Ana", list[0].ClientName)

	other := l.ID
	list, err = f.claims.List(f.ctx, ana, &other)
	require.NoError(t, err)
	assert.Empty(t, list)

	assert.ErrorIs(t, f.claims.Delete(f.ctx, ana, c.ID), domain.ErrForbidden)
	require.NoError(t, f.claims.Delete(f.ctx, admin, c.ID))
	_, err = f.claims.Get(f.ctx, admin, c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDonorsAndRecipients(t *testing.T) {
	f := newFixture(t)
	a := f.client(t, "Ana")
	l := f.client(t, "Luis")

	_, err := f.donors.Create(f.ctx, admin, DonorInput{ClientID: a.ID, Code: "D1"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	d, err := f.donors.Create(f.ctx, admin, DonorInput{ClientID: a.ID, Code: "D1", Breed: "Brahman", Age: 5})
	require.NoError(t, err)
	_, err = f.donors.Create(f.ctx, admin, DonorInput{ClientID: l.ID, Code: "D2", Breed: "Gyr", Age: 3})
	require.NoError(t, err)

	mine, err := f.donors.List(f.ctx, ana, nil)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "D1", mine[0].Code)

	updated, err := f.donors.Update(f.ctx, admin, d.ID, DonorInput{History: "2 partos"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), updated.Age)
	assert.Equal(t, "2 partos", updated.History)
	require.NoError(t, f.donors.Delete(f.ctx, admin, d.ID))

	r, err := f.recipients.Create(f.ctx, admin, RecipientInput{ClientID: l.ID, Code: "R9"})
	require.NoError(t, err)
	_, err = f.recipients.Get(f.ctx, ana, r.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	got, err := f.recipients.Get(f.ctx, admin, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "Luis", got.ClientName)
	_, err = f.recipients.Create(f.ctx, ana, RecipientInput{ClientID: a.ID, Code: "R1"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	require.NoError(t, f.recipients.Delete(f.ctx, admin, r.ID))
	assert.ErrorIs(t, f.recipients.Delete(f.ctx, admin, r.ID), domain.ErrNotFound)
}

func TestUsersAndLogin(t *testing.T) {
	f := newFixture(t)
	created, err := f.users.EnsureAdmin(f.ctx, "admin")
	require.NoError(t, err)
	assert.True(t, created)
	created, err = f.users.EnsureAdmin(f.ctx, "other")
	require.NoError(t, err)
	assert.False(t, created)

	res, err := f.auth.Login(f.ctx, LoginInput{Username: "admin", Password: "admin"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, domain.RoleAdmin, res.User.Role)

	_, err = f.auth.Login(f.ctx, LoginInput{Username: "admin", Password: "nope"})
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	_, err = f.auth.Login(f.ctx, LoginInput{Username: "nobody", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	_, err = f.users.Register(f.ctx, admin, RegisterInput{Username: "Ana", Password: "pw", Role: domain.RoleClient})
	require.NoError(t, err)
	_, err = f.users.Register(f.ctx, admin, RegisterInput{Username: "Ana", Password: "pw2"})
	assert.ErrorIs(t, err, domain.ErrConflict)
	_, err = f.users.Register(f.ctx, ana, RegisterInput{Username: "x", Password: "y"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	list, err := f.users.List(f.ctx, admin)
	require.NoError(t, err)
	assert.ElementsMatch(t, []UserView{{Username: "admin", Role: domain.RoleAdmin}, {Username: "Ana", Role: domain.RoleClient}}, list)

	require.NoError(t, f.users.SetPassword(f.ctx, "Ana", "new"))
	_, err = f.auth.Login(f.ctx, LoginInput{Username: "Ana", Password: "new"})
	require.NoError(t, err)

	assert.ErrorIs(t, f.users.Delete(f.ctx, admin, "admin"), domain.ErrForbidden)
	require.NoError(t, f.users.Delete(f.ctx, admin, "Ana"))
	assert.ErrorIs(t, f.users.Delete(f.ctx, admin, "Ana"), domain.ErrNotFound)
}

func TestDashboard(t *testing.T) {
	f := newFixture(t)
	a := f.client(t, "Ana")
	l := f.client(t, "Luis")
	p := f.process(t, a.ID)
	f.process(t, l.ID)
	_, err := f.processes.UpdateStage(f.ctx, admin, p.ID, 1, StageInput{Status: domain.StageInProgress})
	require.NoError(t, err)
	_, err = f.processes.UpdateStage(f.ctx, admin, p.ID, 2, StageInput{EstimatedDate: "2024-04-01"})
	require.NoError(t, err)
	_, err = f.claims.Create(f.ctx, ana, ClaimInput{Subject: "Duda"})
	require.NoError(t, err)

	d, err := f.dashboard.Summary(f.ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, 2, d.TotalClients)
	assert.Equal(t, 1, d.ActiveProcesses)
	assert.Equal(t, 1, d.ProcessesByStatus[domain.StatusPending])
	assert.Equal(t, 1, d.OpenClaims)
	require.NotNil(t, d.NextKeyDate)
	assert.Equal(t, 2, d.NextKeyDate.StageID)
	assert.Equal(t, "2024-04-01", d.NextKeyDate.Date)

	mine, err := f.dashboard.Summary(f.ctx, domain.Identity{Username: "Luis", Role: domain.RoleClient})
	require.NoError(t, err)
	assert.Equal(t, 1, mine.TotalClients)
	assert.Equal(t, 0, mine.ActiveProcesses)
	assert.Equal(t, 0, mine.OpenClaims)
	assert.Nil(t, mine.NextKeyDate)
}

func TestExports(t *testing.T) {
	f := newFixture(t)
	a := f.client(t, "Ana")
	f.process(t, a.ID)

	clients, err := f.exports.ClientsTable(f.ctx, admin)
	require.NoError(t, err)
	require.Len(t, clients.Rows, 1)
	assert.Equal(t, "Ana", clients.Rows[0][1])

	processes, err := f.exports.ProcessesTable(f.ctx, admin)
	require.NoError(t, err)
	assert.Len(t, processes.Rows, domain.StageCount)
	assert.Len(t, processes.Header, len(processes.Rows[0]))

	_, err = f.exports.ClientsTable(f.ctx, ana)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
