package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartshop/shopctl/internal/client"
	"github.com/smartshop/shopctl/internal/tokenstore"
)

type fakeAPI struct {
	mu sync.Mutex

	authResp  *client.AuthResponse
	authErr   error
	profile   *client.User
	profErr   error
	logoutErr error

	loginCalls   int
	profileCalls int
	logoutCalls  int
}

func (f *fakeAPI) Login(_ context.Context, _ client.LoginRequest) (*client.AuthResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loginCalls++
	return f.authResp, f.authErr
}

func (f *fakeAPI) Register(_ context.Context, _ client.RegisterRequest) (*client.AuthResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.authResp, f.authErr
}

func (f *fakeAPI) Profile(_ context.Context) (*client.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profileCalls++
	return f.profile, f.profErr
}

func (f *fakeAPI) Logout(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logoutCalls++
	return f.logoutErr
}

// failingStore refuses to persist.
type failingStore struct {
	*tokenstore.Memory
}

func (f failingStore) Save(context.Context, string) error {
	return errors.New("disk full")
}

func customer() *client.AuthResponse {
	return &client.AuthResponse{ID: 1, FirstName: "A", LastName: "B", Email: "a@x.com", Role: "CUSTOMER", Token: "T1"}
}

func persisted(t *testing.T, s tokenstore.Store) (string, bool) {
	t.Helper()
	token, ok, err := s.Load(context.Background())
	require.NoError(t, err)
	return token, ok
}

func TestLogin_AgainstServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/users/login", r.URL.Path)

		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, map[string]string{"email": "a@x.com", "password": "secret12"}, payload)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"statusCode":200,"message":"Login successful","data":{"token":"T1","id":1,"role":"CUSTOMER","firstName":"A","lastName":"B","email":"a@x.com"}}`))
	}))
	defer server.Close()

	durable := tokenstore.NewMemory()
	creds := client.NewCredentials(durable)
	api := client.New(client.Config{BaseURL: server.URL + "/api"}, client.WithCredentials(creds))
	store := New(NewAPI(api), creds)

	id, err := store.Login(context.Background(), "a@x.com", "secret12")
	require.NoError(t, err)

	assert.Equal(t, int64(1), id.ID)
	assert.Equal(t, RoleCustomer, id.Role)
	assert.Equal(t, "a@x.com", id.Email)
	assert.Equal(t, "A B", id.Name())

	token, ok := persisted(t, durable)
	assert.True(t, ok)
	assert.Equal(t, "T1", token)

	state := store.Snapshot()
	assert.True(t, state.Authenticated)
	assert.True(t, state.HasToken)
	assert.Equal(t, id, state.Identity)
}

func TestLogin_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"statusCode":401,"message":"Invalid email or password","data":null}`))
	}))
	defer server.Close()

	durable := tokenstore.NewMemory()
	creds := client.NewCredentials(durable)
	api := client.New(client.Config{BaseURL: server.URL + "/api"}, client.WithCredentials(creds))
	store := New(NewAPI(api), creds)

	id, err := store.Login(context.Background(), "a@x.com", "wrongpass")
	require.Error(t, err)
	assert.Nil(t, id)
	assert.Equal(t, "Invalid email or password", err.Error())
	assert.True(t, errors.Is(err, client.ErrAuth))

	_, ok := store.Current()
	assert.False(t, ok)
	_, ok = persisted(t, durable)
	assert.False(t, ok)
}

func TestLogin_MalformedInputReachesServer(t *testing.T) {
	var mu sync.Mutex
	var seen []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body client.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		mu.Lock()
		seen = append(seen, body.Email)
		mu.Unlock()
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"statusCode":401,"message":"Invalid email or password","data":null}`))
	}))
	defer server.Close()

	creds := client.NewCredentials(tokenstore.NewMemory())
	api := client.New(client.Config{BaseURL: server.URL + "/api"}, client.WithCredentials(creds))
	store := New(NewAPI(api), creds)

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"not an email", "admin", "pw"},
		{"empty password", "a@x.com", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := store.Login(context.Background(), tt.email, tt.password)
			require.Error(t, err)
			assert.Nil(t, id)
			assert.Equal(t, "Invalid email or password", err.Error())
			assert.True(t, errors.Is(err, client.ErrAuth))
		})
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"admin", "a@x.com"}, seen)
}

func TestLogin_FailureKeepsExistingSession(t *testing.T) {
	api := &fakeAPI{authResp: customer()}
	store := New(api, client.NewCredentials(nil))

	_, err := store.Login(context.Background(), "a@x.com", "secret12")
	require.NoError(t, err)

	api.authResp, api.authErr = nil, &client.Error{Kind: client.KindAuth, Message: "Account locked"}
	_, err = store.Login(context.Background(), "b@x.com", "secret12")
	require.Error(t, err)

	id, ok := store.Current()
	require.True(t, ok)
	assert.Equal(t, "a@x.com", id.Email)
}

func TestLogin_EmptyTokenIsMalformed(t *testing.T) {
	resp := customer()
	resp.Token = ""
	store := New(&fakeAPI{authResp: resp}, client.NewCredentials(nil))

	_, err := store.Login(context.Background(), "a@x.com", "secret12")
	require.Error(t, err)
	assert.Equal(t, client.KindTransport, client.KindOf(err))
	assert.Equal(t, client.MessageMalformedResponse, err.Error())

	assert.False(t, store.Snapshot().Authenticated)
	assert.False(t, store.Snapshot().HasToken)
}

func TestLogin_PersistFailure(t *testing.T) {
	creds := client.NewCredentials(failingStore{tokenstore.NewMemory()})
	store := New(&fakeAPI{authResp: customer()}, creds)

	_, err := store.Login(context.Background(), "a@x.com", "secret12")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	state := store.Snapshot()
	assert.False(t, state.Authenticated)
	assert.False(t, state.HasToken)
}

func TestRegister(t *testing.T) {
	resp := customer()
	resp.Role = "VENDOR"
	resp.Token = "T9"
	durable := tokenstore.NewMemory()
	store := New(&fakeAPI{authResp: resp}, client.NewCredentials(durable))

	id, err := store.Register(context.Background(), "A", "B", "a@x.com", "secret12")
	require.NoError(t, err)
	assert.Equal(t, RoleVendor, id.Role)
	assert.Equal(t, "vendor", id.Role.Dashboard())

	token, _ := persisted(t, durable)
	assert.Equal(t, "T9", token)
}

func TestLogoutThenRestore_NoNetworkCall(t *testing.T) {
	durable := tokenstore.NewMemory()
	api := &fakeAPI{authResp: customer(), profile: &client.User{ID: 1}}
	store := New(api, client.NewCredentials(durable))

	_, err := store.Login(context.Background(), "a@x.com", "secret12")
	require.NoError(t, err)
	store.Logout(context.Background())

	_, ok := persisted(t, durable)
	require.False(t, ok)

	// A new process reading the same durable slot.
	reloaded := New(api, client.NewCredentials(durable))
	assert.False(t, reloaded.Known())
	reloaded.Restore(context.Background())

	assert.True(t, reloaded.Known())
	_, ok = reloaded.Current()
	assert.False(t, ok)
	assert.Zero(t, api.profileCalls)
}

func TestRestore_RejectedTokenIsCleared(t *testing.T) {
	durable := tokenstore.NewMemoryWithToken("expired")
	api := &fakeAPI{profErr: &client.Error{Kind: client.KindAuth, StatusCode: 401, Message: "Session expired"}}
	store := New(api, client.NewCredentials(durable))

	store.Restore(context.Background())

	assert.Equal(t, 1, api.profileCalls)
	_, ok := persisted(t, durable)
	assert.False(t, ok)

	state := store.Snapshot()
	assert.False(t, state.Authenticated)
	assert.False(t, state.HasToken)
}

func TestRestore_AgainstServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/users/profile", r.URL.Path)
		assert.Equal(t, "Bearer T1", r.Header.Get("Authorization"))
		w.Write([]byte(`{"statusCode":200,"message":"ok","data":{"id":1,"firstName":"A","lastName":"B","email":"a@x.com","role":"ADMIN"}}`))
	}))
	defer server.Close()

	creds := client.NewCredentials(tokenstore.NewMemoryWithToken("T1"))
	api := client.New(client.Config{BaseURL: server.URL + "/api"}, client.WithCredentials(creds))
	store := New(NewAPI(api), creds)

	store.Restore(context.Background())

	id, ok := store.Current()
	require.True(t, ok)
	assert.Equal(t, RoleAdmin, id.Role)
	assert.Equal(t, "admin", id.Role.Dashboard())
}

func TestRestore_NetworkFailureLogsOut(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	durable := tokenstore.NewMemoryWithToken("T1")
	creds := client.NewCredentials(durable)
	api := client.New(client.Config{BaseURL: server.URL}, client.WithCredentials(creds))
	store := New(NewAPI(api), creds)

	store.Restore(context.Background())

	_, ok := persisted(t, durable)
	assert.False(t, ok)
	assert.False(t, store.Snapshot().Authenticated)
}

func TestRestore_RunsOnce(t *testing.T) {
	api := &fakeAPI{profile: &client.User{ID: 3, Role: "CUSTOMER"}}
	store := New(api, client.NewCredentials(tokenstore.NewMemoryWithToken("T1")))

	var wg sync.WaitGroup
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Restore(context.Background())
		}()
	}
	wg.Wait()

	select {
	case <-store.Ready():
	default:
		t.Fatal("ready channel not closed")
	}
	assert.Equal(t, 1, api.profileCalls)
}

func TestSubscribe(t *testing.T) {
	api := &fakeAPI{authResp: customer()}
	store := New(api, client.NewCredentials(nil))

	var states []State
	unsubscribe := store.Subscribe(func(s State) {
		// No half-updated views.
		assert.Equal(t, s.Authenticated, s.HasToken)
		assert.Equal(t, s.Authenticated, s.Identity != nil)
		states = append(states, s)
	})

	require.Len(t, states, 1)
	assert.False(t, states[0].Authenticated)

	_, err := store.Login(context.Background(), "a@x.com", "secret12")
	require.NoError(t, err)
	store.Logout(context.Background())

	require.Len(t, states, 3)
	assert.True(t, states[1].Authenticated)
	assert.Equal(t, int64(1), states[1].Identity.ID)
	assert.False(t, states[2].Authenticated)

	unsubscribe()
	unsubscribe()
	_, err = store.Login(context.Background(), "a@x.com", "secret12")
	require.NoError(t, err)
	assert.Len(t, states, 3)
}

func TestSubscribe_LateSubscriberSeesCurrentState(t *testing.T) {
	store := New(&fakeAPI{authResp: customer()}, client.NewCredentials(nil))
	_, err := store.Login(context.Background(), "a@x.com", "secret12")
	require.NoError(t, err)

	var got State
	store.Subscribe(func(s State) { got = s })

	assert.True(t, got.Authenticated)
	assert.Equal(t, "a@x.com", got.Identity.Email)
}

func TestSubscribe_SnapshotIsACopy(t *testing.T) {
	store := New(&fakeAPI{authResp: customer()}, client.NewCredentials(nil))
	_, err := store.Login(context.Background(), "a@x.com", "secret12")
	require.NoError(t, err)

	state := store.Snapshot()
	state.Identity.Role = RoleAdmin

	id, _ := store.Current()
	assert.Equal(t, RoleCustomer, id.Role)
}

func TestLogout_ServerLogout(t *testing.T) {
	tests := []struct {
		name      string
		enabled   bool
		logoutErr error
		wantCalls int
	}{
		{"disabled", false, nil, 0},
		{"enabled", true, nil, 1},
		{"enabled and failing", true, errors.New("boom"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{authResp: customer(), logoutErr: tt.logoutErr}
			store := New(api, client.NewCredentials(nil), WithServerLogout(tt.enabled))

			_, err := store.Login(context.Background(), "a@x.com", "secret12")
			require.NoError(t, err)
			store.Logout(context.Background())

			assert.Equal(t, tt.wantCalls, api.logoutCalls)
			assert.False(t, store.Snapshot().Authenticated)
			assert.False(t, store.Snapshot().HasToken)
		})
	}
}

func TestLogout_WithoutSessionSkipsServer(t *testing.T) {
	api := &fakeAPI{}
	store := New(api, client.NewCredentials(nil), WithServerLogout(true))

	store.Logout(context.Background())
	assert.Zero(t, api.logoutCalls)
}

func TestRequireRole(t *testing.T) {
	api := &fakeAPI{authResp: customer()}
	store := New(api, client.NewCredentials(nil))

	assert.ErrorIs(t, store.RequireRole(RoleAdmin), ErrNotAuthenticated)
	assert.ErrorIs(t, store.RequireRole(), ErrNotAuthenticated)

	_, err := store.Login(context.Background(), "a@x.com", "secret12")
	require.NoError(t, err)

	assert.NoError(t, store.RequireRole())
	assert.NoError(t, store.RequireRole(RoleCustomer))
	assert.NoError(t, store.RequireRole("customer"))
	assert.NoError(t, store.RequireRole(RoleAdmin, RoleCustomer))
	assert.ErrorIs(t, store.RequireRole(RoleAdmin, RoleVendor), ErrForbidden)
}

func TestUnknownRoleFallsBackToCustomerDashboard(t *testing.T) {
	resp := customer()
	resp.Role = "AUDITOR"
	store := New(&fakeAPI{authResp: resp}, client.NewCredentials(nil))

	id, err := store.Login(context.Background(), "a@x.com", "secret12")
	require.NoError(t, err)
	assert.Equal(t, Role("AUDITOR"), id.Role)
	assert.Equal(t, "customer", id.Role.Dashboard())
	assert.ErrorIs(t, store.RequireRole(RoleCustomer), ErrForbidden)
}
