package usecase

import (
	"context"
	"sync"

	"zopsm/internal/domain"
)

// The fakes mirror the postgres repositories' quota semantics closely enough
// for the services' behavior to be observable: guarded counters, conflict on
// duplicates, ErrNotFound on misses.

type fakeAccounts struct {
	mu       sync.Mutex
	byID     map[string]domain.Account
	tenants  map[string]domain.Tenant
	users    *fakeUsers
	failNext error
}

func newFakeAccounts(users *fakeUsers) *fakeAccounts {
	return &fakeAccounts{
		byID:    make(map[string]domain.Account),
		tenants: make(map[string]domain.Tenant),
		users:   users,
	}
}

func (f *fakeAccounts) takeFailure() error {
	err := f.failNext
	f.failNext = nil
	return err
}

// CreateWithAdmin mirrors the all-or-nothing postgres transaction: a
// rejected email leaves no tenant behind.
func (f *fakeAccounts) CreateWithAdmin(ctx context.Context, tenant domain.Tenant, account domain.Account, admin domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeFailure(); err != nil {
		return err
	}
	for _, a := range f.byID {
		if a.Email == account.Email {
			return domain.ErrConflict
		}
	}
	f.tenants[tenant.ID] = tenant
	f.byID[account.ID] = account
	return f.users.Create(ctx, admin)
}

func (f *fakeAccounts) tenantByID(id string) (domain.Tenant, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tenant, ok := f.tenants[id]
	return tenant, ok
}

func (f *fakeAccounts) GetByID(_ context.Context, id string) (domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	account, ok := f.byID[id]
	if !ok {
		return domain.Account{}, domain.ErrNotFound
	}
	return account, nil
}

func (f *fakeAccounts) GetByEmail(_ context.Context, email string) (domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.byID {
		if a.Email == email {
			return a, nil
		}
	}
	return domain.Account{}, domain.ErrNotFound
}

func (f *fakeAccounts) Approve(_ context.Context, email, approveCode string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, a := range f.byID {
		if a.Email == email && a.ApproveCode == approveCode {
			a.IsActive = true
			f.byID[id] = a
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeAccounts) SetApproveCode(_ context.Context, email, approveCode string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, a := range f.byID {
		if a.Email == email {
			a.ApproveCode = approveCode
			f.byID[id] = a
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeAccounts) Update(_ context.Context, account domain.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[account.ID]; !ok {
		return domain.ErrNotFound
	}
	f.byID[account.ID] = account
	return nil
}

func (f *fakeAccounts) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeUsers struct {
	mu   sync.Mutex
	byID map[string]domain.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: make(map[string]domain.User)}
}

func (f *fakeUsers) Create(_ context.Context, user domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == user.Email {
			return domain.ErrConflict
		}
	}
	f.byID[user.ID] = user
	return nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == email && u.IsActive {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

func (f *fakeUsers) GetByID(_ context.Context, accountID, id string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok || u.AccountID != accountID {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) ListByRole(_ context.Context, accountID string, role domain.Role) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.User
	for _, u := range f.byID {
		if u.AccountID == accountID && u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUsers) Update(_ context.Context, user domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[user.ID]; !ok {
		return domain.ErrNotFound
	}
	f.byID[user.ID] = user
	return nil
}

func (f *fakeUsers) UpdatePassword(_ context.Context, userID, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[userID]
	if !ok {
		return domain.ErrNotFound
	}
	u.PasswordHash = passwordHash
	f.byID[userID] = u
	return nil
}

func (f *fakeUsers) Delete(_ context.Context, accountID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok || u.AccountID != accountID {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeProjects struct {
	mu       sync.Mutex
	byID     map[string]domain.Project
	accounts *fakeAccounts
}

func newFakeProjects(accounts *fakeAccounts) *fakeProjects {
	return &fakeProjects{byID: make(map[string]domain.Project), accounts: accounts}
}

func (f *fakeProjects) Create(_ context.Context, project domain.Project) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accounts.mu.Lock()
	defer f.accounts.mu.Unlock()
	account, ok := f.accounts.byID[project.AccountID]
	if !ok {
		return domain.ErrNotFound
	}
	if account.ProjectUsed >= account.ProjectLimit {
		return domain.ErrLimitExceeded
	}
	account.ProjectUsed++
	f.accounts.byID[account.ID] = account
	f.byID[project.ID] = project
	return nil
}

func (f *fakeProjects) GetByID(_ context.Context, accountID, id string) (domain.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byID[id]
	if !ok || p.AccountID != accountID {
		return domain.Project{}, domain.ErrNotFound
	}
	return p, nil
}

func (f *fakeProjects) List(_ context.Context, accountID string) ([]domain.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Project
	for _, p := range f.byID {
		if p.AccountID == accountID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProjects) Update(_ context.Context, project domain.Project) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[project.ID]; !ok {
		return domain.ErrNotFound
	}
	f.byID[project.ID] = project
	return nil
}

func (f *fakeProjects) Delete(_ context.Context, accountID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byID[id]
	if !ok || p.AccountID != accountID {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	f.accounts.mu.Lock()
	defer f.accounts.mu.Unlock()
	if account, ok := f.accounts.byID[accountID]; ok && account.ProjectUsed > 0 {
		account.ProjectUsed--
		f.accounts.byID[accountID] = account
	}
	return nil
}

type serviceKey struct {
	accountID string
	projectID string
	code      string
}

type fakeServices struct {
	mu    sync.Mutex
	byKey map[serviceKey]domain.Service
}

func newFakeServices() *fakeServices {
	return &fakeServices{byKey: make(map[serviceKey]domain.Service)}
}

func (f *fakeServices) Create(_ context.Context, service domain.Service) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := serviceKey{service.AccountID, service.ProjectID, service.ServiceCatalogCode}
	if _, ok := f.byKey[key]; ok {
		return domain.ErrConflict
	}
	f.byKey[key] = service
	return nil
}

func (f *fakeServices) GetByCode(_ context.Context, accountID, projectID, code string) (domain.Service, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.byKey[serviceKey{accountID, projectID, code}]
	if !ok {
		return domain.Service{}, domain.ErrNotFound
	}
	return s, nil
}

func (f *fakeServices) ListByProject(_ context.Context, accountID, projectID string) ([]domain.Service, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Service
	for key, s := range f.byKey {
		if key.accountID == accountID && key.projectID == projectID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeServices) ConsumeItem(_ context.Context, accountID, projectID, code string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := serviceKey{accountID, projectID, code}
	s, ok := f.byKey[key]
	if !ok {
		return false, domain.ErrNotFound
	}
	if s.ItemUsed >= s.ItemLimit {
		return false, domain.ErrLimitExceeded
	}
	s.ItemUsed++
	f.byKey[key] = s
	return s.ItemUsed >= s.ItemLimit, nil
}

func (f *fakeServices) Delete(_ context.Context, accountID, projectID, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := serviceKey{accountID, projectID, code}
	if _, ok := f.byKey[key]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byKey, key)
	return nil
}

type fakeCatalogs struct {
	entries []domain.ServiceCatalog
}

func (f *fakeCatalogs) List(context.Context) ([]domain.ServiceCatalog, error) {
	return f.entries, nil
}

type attachKey struct {
	projectID  string
	consumerID string
}

type fakeConsumers struct {
	mu       sync.Mutex
	byID     map[string]domain.Consumer
	attached map[attachKey]domain.ProjectConsumer
	projects *fakeProjects
}

func newFakeConsumers(projects *fakeProjects) *fakeConsumers {
	return &fakeConsumers{
		byID:     make(map[string]domain.Consumer),
		attached: make(map[attachKey]domain.ProjectConsumer),
		projects: projects,
	}
}

func (f *fakeConsumers) Create(_ context.Context, consumer domain.Consumer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[consumer.ID] = consumer
	return nil
}

func (f *fakeConsumers) GetByID(_ context.Context, accountID, id string) (domain.Consumer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.byID[id]
	if !ok || c.AccountID != accountID {
		return domain.Consumer{}, domain.ErrNotFound
	}
	return c, nil
}

func (f *fakeConsumers) Attach(_ context.Context, attachment domain.ProjectConsumer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := attachKey{attachment.ProjectID, attachment.ConsumerID}
	if _, ok := f.attached[key]; ok {
		return domain.ErrConflict
	}
	f.projects.mu.Lock()
	defer f.projects.mu.Unlock()
	p, ok := f.projects.byID[attachment.ProjectID]
	if !ok {
		return domain.ErrNotFound
	}
	if p.UserUsed >= p.UserLimit {
		return domain.ErrLimitExceeded
	}
	p.UserUsed++
	f.projects.byID[p.ID] = p
	f.attached[key] = attachment
	return nil
}

func (f *fakeConsumers) Detach(_ context.Context, projectID, consumerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := attachKey{projectID, consumerID}
	if _, ok := f.attached[key]; !ok {
		return domain.ErrNotFound
	}
	delete(f.attached, key)
	f.projects.mu.Lock()
	defer f.projects.mu.Unlock()
	if p, ok := f.projects.byID[projectID]; ok && p.UserUsed > 0 {
		p.UserUsed--
		f.projects.byID[p.ID] = p
	}
	return nil
}

func (f *fakeConsumers) IsAttached(_ context.Context, projectID, consumerID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.attached[attachKey{projectID, consumerID}]
	return ok, nil
}

type sentMail struct {
	email string
	value string
}

type fakeMailer struct {
	mu           sync.Mutex
	approveCodes []sentMail
	resetTokens  []sentMail
	failNext     error
}

func (f *fakeMailer) SendApproveCode(_ context.Context, email, approveCode, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failNext; err != nil {
		f.failNext = nil
		return err
	}
	f.approveCodes = append(f.approveCodes, sentMail{email: email, value: approveCode})
	return nil
}

func (f *fakeMailer) SendResetPassword(_ context.Context, email, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failNext; err != nil {
		f.failNext = nil
		return err
	}
	f.resetTokens = append(f.resetTokens, sentMail{email: email, value: token})
	return nil
}

func (f *fakeMailer) lastApproveCode() (sentMail, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.approveCodes) == 0 {
		return sentMail{}, false
	}
	return f.approveCodes[len(f.approveCodes)-1], true
}

func (f *fakeMailer) lastResetToken() (sentMail, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.resetTokens) == 0 {
		return sentMail{}, false
	}
	return f.resetTokens[len(f.resetTokens)-1], true
}
