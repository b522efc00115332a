package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	domainauth "github.com/gpse/sesam-client/internal/domain/auth"
	"github.com/gpse/sesam-client/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_FilterUsers(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/admin/users/filter", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "ROLE_ADMIN", q.Get("permission"))
		assert.Equal(t, "true", q.Get("activated"))
		assert.Equal(t, "email", q.Get("searchType"))
		assert.Equal(t, "ada", q.Get("search"))
		_, _ = w.Write([]byte(`[{"email":"a@b.com","forename":"Ada","surname":"L","activated":true}]`))
	})
	c := newTestClient(t, mux)

	users, err := c.FilterUsers(context.Background(), model.UserFilter{
		Permission: "ROLE_ADMIN",
		Activated:  "true",
		SearchType: model.SearchByEmail,
		Search:     "ada",
	})

	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "a@b.com", users[0].Email)
	assert.True(t, users[0].Activated)
}

func TestClient_BulkUserOperations(t *testing.T) {
	var got []string
	mux := http.NewServeMux()
	for _, action := range []string{"activate", "deactivate", "delete"} {
		mux.HandleFunc("POST /api/admin/users/"+action, func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseForm())
			got = append(got, action+"="+r.PostForm.Get("emails"))
			_, _ = w.Write([]byte("valid"))
		})
	}
	c := newTestClient(t, mux)
	ctx := context.Background()
	emails := []string{"a@b.com", "c@d.com"}

	for _, op := range []func(context.Context, []string) (bool, error){c.ActivateUsers, c.DeactivateUsers, c.DeleteUsers} {
		ok, err := op(ctx, emails)
		require.NoError(t, err)
		assert.True(t, ok)
	}

	assert.Equal(t, []string{
		"activate=a@b.com,c@d.com",
		"deactivate=a@b.com,c@d.com",
		"delete=a@b.com,c@d.com",
	}, got)
}

func TestClient_SetUserRoles(t *testing.T) {
	var roles string
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/admin/users/roles/{email}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "a@b.com", r.PathValue("email"))
		require.NoError(t, r.ParseForm())
		roles = r.PostForm.Get("roles")
		w.WriteHeader(http.StatusOK)
	})
	c := newTestClient(t, mux)

	err := c.SetUserRoles(context.Background(), "a@b.com", domainauth.NewRoleSet(domainauth.RoleEditor, domainauth.RoleAdmin))

	require.NoError(t, err)
	assert.Equal(t, "1,3", roles)
}

func TestClient_UserLookups(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/users/{rest...}", func(w http.ResponseWriter, r *http.Request) {
		switch r.PathValue("rest") {
		case "email/a@b.com":
			_, _ = w.Write([]byte(`{"email":"a@b.com","roles":["ROLE_ISSUER"]}`))
		case "a@b.com/roles":
			_, _ = w.Write([]byte(`["ROLE_ISSUER"]`))
		case "a@b.com/credentials":
			_, _ = w.Write([]byte(`[{"id":1,"name":"Member","credentialDid":"$T-MEMBER"}]`))
		default:
			http.NotFound(w, r)
		}
	})
	mux.HandleFunc("GET /api/admin/users/credentials/issuable/{email}", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})
	mux.HandleFunc("POST /api/admin/users/credentials/allowIssue", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "1,2", r.PostForm.Get("credentials"))
		w.WriteHeader(http.StatusOK)
	})
	c := newTestClient(t, mux)
	ctx := context.Background()

	u, err := c.UserInformation(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", u.Email)

	roles, err := c.UserRoles(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"ROLE_ISSUER"}, roles)

	creds, err := c.PermittedCredentialsOf(ctx, "a@b.com")
	require.NoError(t, err)
	require.Len(t, creds, 1)
	assert.Equal(t, "$T-MEMBER", creds[0].CredentialDID)

	issuable, err := c.IssuableCredentialsOf(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Empty(t, issuable)

	require.NoError(t, c.SetIssuerCredentials(ctx, "a@b.com", []int64{1, 2}))
}

func TestClient_Credentials(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/credentials", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"id":1},{"id":2}]`))
	})
	mux.HandleFunc("GET /api/credentials/{id}", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":` + r.PathValue("id") + `,"checklist":["badge"]}`))
	})
	mux.HandleFunc("GET /api/credentials/permitted", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"id":3}]`))
	})
	mux.HandleFunc("GET /api/credentials/issuable", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})
	mux.HandleFunc("GET /api/credentialGroupUnions", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"id":1,"name":"Staff","isGroup":true,"attributes":[]}]`))
	})
	mux.HandleFunc("POST /api/credentials/{id}/checklist", func(w http.ResponseWriter, r *http.Request) {
		var body map[string][]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []string{}, body["items"])
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("POST /api/admin/credentials/edit/{id}/save", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "Member", r.PostForm.Get("name"))
		_, _ = w.Write([]byte("saved"))
	})
	c := newTestClient(t, mux)
	ctx := context.Background()

	all, err := c.Credentials(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	one, err := c.Credential(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), one.ID)
	assert.Equal(t, []string{"badge"}, one.Checklist)

	permitted, err := c.PermittedCredentials(ctx)
	require.NoError(t, err)
	assert.Len(t, permitted, 1)

	issuable, err := c.IssuableCredentials(ctx)
	require.NoError(t, err)
	assert.Empty(t, issuable)

	unions, err := c.CredentialGroupUnions(ctx)
	require.NoError(t, err)
	require.Len(t, unions, 1)
	assert.True(t, unions[0].IsGroup)

	require.NoError(t, c.UpdateChecklist(ctx, 7, nil))

	msg, err := c.UpdateCredential(ctx, 7, "Member", "T-Labs", "")
	require.NoError(t, err)
	assert.Equal(t, "saved", msg)
}

func TestClient_CredentialGroups(t *testing.T) {
	var forms []string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/admin/credentialgroups/all", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"name":"Staff","credentials":[{"id":1}]}]`))
	})
	mux.HandleFunc("GET /api/admin/credentialgroups/get", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"name":"` + r.URL.Query().Get("name") + `"}`))
	})
	record := func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		forms = append(forms, r.URL.Path+"?"+r.PostForm.Encode())
		_, _ = w.Write([]byte("done"))
	}
	mux.HandleFunc("POST /api/credentialgroups/add", record)
	mux.HandleFunc("POST /api/admin/credentialgroups/update", record)
	mux.HandleFunc("POST /api/admin/credentialgroups/delete", record)
	c := newTestClient(t, mux)
	ctx := context.Background()

	groups, err := c.CredentialGroups(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 1)

	g, err := c.CredentialGroup(ctx, "Staff")
	require.NoError(t, err)
	assert.Equal(t, "Staff", g.Name)

	in := CredentialGroupInput{CredentialIDs: []int64{1, 2}, Name: "Staff", Origin: "HR", Additional: "x"}
	_, err = c.AddCredentialGroup(ctx, in)
	require.NoError(t, err)
	_, err = c.UpdateCredentialGroup(ctx, "Old", in)
	require.NoError(t, err)
	require.NoError(t, c.DeleteCredentialGroup(ctx, "Staff"))

	assert.Equal(t, []string{
		"/api/credentialgroups/add?CredentialIDs=1%2C2&additional=x&name=Staff&origin=HR",
		"/api/admin/credentialgroups/update?CredentialIDs=1%2C2&additional=x&name=Staff&oldGroupName=Old&origin=HR",
		"/api/admin/credentialgroups/delete?name=Staff",
	}, forms)
}

func TestClient_CreateIssueQR(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/issuer/create/qr", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "$T-MEMBER", r.PostForm.Get("credentialDefinitionId"))
		assert.Equal(t, "Ada", r.PostForm.Get("firstName"))
		assert.Len(t, r.PostForm, 2)
		_, _ = w.Write([]byte("https://issuer.example/qr/123\n"))
	})
	c := newTestClient(t, mux)

	link, err := c.CreateIssueQR(context.Background(), "$T-MEMBER", map[string]string{
		"firstName":              "Ada",
		"credentialDefinitionId": "ignored",
	})

	require.NoError(t, err)
	assert.Equal(t, "https://issuer.example/qr/123", link)
}

func TestClient_DesignSettings(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/admin/designsettings", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"name":"Sesam","darkMode":{"primary":"#111111"},"lightMode":{"primary":"#eeeeee"},"imprint":"x"}`))
	})
	c := newTestClient(t, mux)

	cfg, err := c.DesignSettings(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Sesam", cfg.Name)
	assert.Equal(t, "#111111", cfg.Scheme(true).Primary)
	assert.Equal(t, "#eeeeee", cfg.Scheme(false).Primary)
}

func TestClient_BuildingsAndFloors(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/buildings", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"id":1,"name":"Main"}]`))
	})
	mux.HandleFunc("POST /api/buildings", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Annex", r.FormValue("name"))
		f, hdr, err := r.FormFile("image")
		require.NoError(t, err)
		defer f.Close()
		data, err := io.ReadAll(f)
		require.NoError(t, err)
		assert.Equal(t, "annex.png", hdr.Filename)
		assert.Equal(t, "PNGDATA", string(data))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":2,"name":"Annex"}`))
	})
	mux.HandleFunc("DELETE /api/deleteBuildings/{id}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.PathValue("id"))
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("GET /api/buildings/{id}/floors", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"id":10,"name":"Ground"}]`))
	})
	mux.HandleFunc("PUT /api/floors/{id}/name", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "First", r.FormValue("name"))
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("GET /api/floors/{id}", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id":10,"name":"Ground","defaultRoomGroup":{"id":5,"name":"default","color":16777215}}`))
	})
	c := newTestClient(t, mux)
	ctx := context.Background()

	buildings, err := c.Buildings(ctx)
	require.NoError(t, err)
	require.Len(t, buildings, 1)

	added, err := c.AddBuilding(ctx, "Annex", Upload{Filename: "annex.png", Content: strings.NewReader("PNGDATA")})
	require.NoError(t, err)
	assert.Equal(t, int64(2), added.ID)

	require.NoError(t, c.DeleteBuilding(ctx, 2))

	floors, err := c.BuildingFloors(ctx, 1)
	require.NoError(t, err)
	require.Len(t, floors, 1)

	require.NoError(t, c.UpdateFloorName(ctx, 10, "First"))

	floor, err := c.Floor(ctx, 10)
	require.NoError(t, err)
	require.NotNil(t, floor.DefaultRoomGroup)
	assert.Equal(t, "#ffffff", model.HexColorFromInt(floor.DefaultRoomGroup.Color))
}

func TestClient_Rooms(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/floors/{id}/roomGroups", func(w http.ResponseWriter, r *http.Request) {
		var in model.RoomGroupInfo
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "Labs", in.Name)
		assert.Equal(t, 0xff0000, in.Color)
		in.ID = 9
		require.NoError(t, json.NewEncoder(w).Encode(in))
	})
	mux.HandleFunc("PUT /api/rooms/{id}", func(w http.ResponseWriter, r *http.Request) {
		var in map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, map[string]any{"name": "Lab 1"}, in)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":3,"name":"Lab 1"}`))
	})
	mux.HandleFunc("POST /api/rooms/{id}/checkValid", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.PostForm.Get("credentials") == "1,2" {
			_, _ = w.Write([]byte("success"))
			return
		}
		_, _ = w.Write([]byte("fail"))
	})
	mux.HandleFunc("GET /api/floors/{id}/roomGroupsWithRooms", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"id":9,"name":"Labs","color":16711680,"rooms":[{"id":3,"name":"Lab 1","vertices":[{"x":0,"y":0}]}]}]`))
	})
	c := newTestClient(t, mux)
	ctx := context.Background()

	color, err := model.IntFromHexColor("#ff0000")
	require.NoError(t, err)
	group, err := c.AddRoomGroup(ctx, 10, "Labs", color)
	require.NoError(t, err)
	assert.Equal(t, int64(9), group.ID)

	name := "Lab 1"
	room, err := c.UpdateRoom(ctx, 3, model.RoomUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Lab 1", room.Name)

	ok, err := c.CanEnterRoom(ctx, 3, []int64{1, 2})
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = c.CanEnterRoom(ctx, 3, nil)
	require.NoError(t, err)
	assert.False(t, ok)

	groups, err := c.RoomGroupsWithRooms(ctx, 10)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "Labs", groups[0].Name)
	require.Len(t, groups[0].Rooms, 1)
	assert.Equal(t, "Lab 1", groups[0].Rooms[0].Name)
}
