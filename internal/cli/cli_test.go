package cli

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teamboard/core/internal/client"
	"github.com/teamboard/core/internal/database/dbtest"
	"github.com/teamboard/core/internal/models"
	"github.com/teamboard/core/internal/modules/health"
	"github.com/teamboard/core/internal/modules/member"
	"github.com/teamboard/core/internal/modules/project"
	"github.com/teamboard/core/internal/modules/stats"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newAPI serves the real handlers over an in-memory database.
func newAPI(t *testing.T) (string, *client.Client) {
	t.Helper()
	db := dbtest.New(t)

	r := gin.New()
	api := r.Group("/api")
	health.RegisterRoutes(api, db, nil)
	member.NewHandler(member.NewService(db)).RegisterRoutes(api)
	project.NewHandler(project.NewService(db)).RegisterRoutes(api)
	stats.RegisterRoutes(api, stats.NewService(db))

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv.URL + "/api", client.New(srv.URL+"/api", nil)
}

func run(t *testing.T, apiURL, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := RootCommand()
	cmd.SetArgs(append([]string{"--api", apiURL}, args...))
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func seedMember(t *testing.T, c *client.Client, name, email string) *client.Member {
	t.Helper()
	m, err := c.CreateMember(context.Background(), client.MemberInput{Name: name, Email: email, Role: "Engineer"})
	require.NoError(t, err)
	return m
}

func TestMembersDashboard(t *testing.T) {
	apiURL, c := newAPI(t)

	out, err := run(t, apiURL, "", "members")
	require.NoError(t, err)
	assert.Contains(t, out, "0 members")
	assert.Contains(t, out, "No members yet")

	_, err = run(t, apiURL, "", "members", "create", "--name", "Ana", "--email", "ana@example.com", "--skill", "Go:expert")
	require.NoError(t, err)
	bo := seedMember(t, c, "Bo", "bo@example.com")
	id := bo.ID
	for _, title := range []string{"Portal", "Billing"} {
		_, err := c.CreateProject(context.Background(), client.ProjectInput{Title: title, MemberID: &id, Status: models.StatusPending, Priority: models.PriorityLow})
		require.NoError(t, err)
	}

	out, err = run(t, apiURL, "", "members")
	require.NoError(t, err)
	assert.Contains(t, out, "2 members · 2 projects")
	assert.Contains(t, out, "Ana")
	assert.Contains(t, out, "Go (expert)")
	assert.Contains(t, out, "2 projects")
	assert.Contains(t, out, "0 projects")
}

func TestMemberCreateRequiresNameAndEmail(t *testing.T) {
	apiURL, c := newAPI(t)

	_, err := run(t, apiURL, "", "members", "create", "--email", "x@example.com")
	var fe *client.FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "name", fe.Field)

	members, err := c.ListMembers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestMemberEditKeepsUnsetFields(t *testing.T) {
	apiURL, c := newAPI(t)
	m, err := c.CreateMember(context.Background(), client.MemberInput{
		Name: "Ana", Email: "ana@example.com", Phone: "555", Skills: []client.Skill{{SkillName: "Go"}},
	})
	require.NoError(t, err)

	_, err = run(t, apiURL, "", "members", "edit", "1", "--role", "Lead")
	require.NoError(t, err)

	got, err := c.GetMember(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lead", got.Role)
	assert.Equal(t, "555", got.Phone)
	assert.Equal(t, "ana@example.com", got.Email)
	require.Len(t, got.Skills, 1)
}

func TestMemberEditClearsSkills(t *testing.T) {
	apiURL, c := newAPI(t)
	m, err := c.CreateMember(context.Background(), client.MemberInput{
		Name: "Ana", Email: "ana@example.com", Skills: []client.Skill{{SkillName: "Go", Proficiency: "Expert"}},
	})
	require.NoError(t, err)

	_, err = run(t, apiURL, "", "members", "edit", "1", "--skill", "SQL:basic")
	require.NoError(t, err)
	got, err := c.GetMember(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, []client.Skill{{SkillName: "SQL", Proficiency: "basic"}}, got.Skills)

	_, err = run(t, apiURL, "", "members", "edit", "1", "--skill", "")
	require.NoError(t, err)
	got, err = c.GetMember(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Skills)
	assert.Equal(t, "Ana", got.Name)

	_, err = c.UpdateMember(context.Background(), m.ID, client.MemberInput{
		Name: "Ana", Email: "ana@example.com", Skills: []client.Skill{{SkillName: "Go"}},
	})
	require.NoError(t, err)
	_, err = c.UpdateMember(context.Background(), m.ID, client.MemberInput{
		Name: "Ana", Email: "ana@example.com", Skills: []client.Skill{},
	})
	require.NoError(t, err)
	got, err = c.GetMember(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Skills)
}

func TestMemberDeleteAndNotFound(t *testing.T) {
	apiURL, c := newAPI(t)
	seedMember(t, c, "Ana", "ana@example.com")

	out, err := run(t, apiURL, "no\n", "members", "delete", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Aborted")

	_, err = run(t, apiURL, "", "members", "delete", "1", "--yes")
	require.NoError(t, err)

	_, err = run(t, apiURL, "", "members", "get", "1")
	assert.True(t, client.IsNotFound(err))
	assert.Contains(t, err.Error(), "Member not found")
}

func TestProjectCreateValidatesBeforeSending(t *testing.T) {
	apiURL, c := newAPI(t)
	seedMember(t, c, "Ana", "ana@example.com")

	var stderr bytes.Buffer
	code := Execute(context.Background(), []string{"--api", apiURL, "projects", "create", "--member", "1"}, &bytes.Buffer{}, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "--title is required")

	code = Execute(context.Background(), []string{"--api", apiURL, "projects", "create", "--title", "Portal"}, &bytes.Buffer{}, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "--member is required")

	projects, err := c.ListProjects(context.Background(), client.ProjectFilter{})
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestProjectLifecycle(t *testing.T) {
	apiURL, c := newAPI(t)
	seedMember(t, c, "Ana", "ana@example.com")

	out, err := run(t, apiURL, "", "projects", "create", "--title", "Portal", "--member", "1", "--technologies", "Go, React")
	require.NoError(t, err)
	assert.Contains(t, out, "Created project #1 Portal")

	p, err := c.GetProject(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, p.Status)
	assert.Equal(t, models.PriorityMedium, p.Priority)
	assert.Equal(t, models.StringArray{"Go", "React"}, p.Technologies)

	_, err = run(t, apiURL, "", "projects", "create", "--title", "Billing", "--member", "1", "--status", "completed", "--progress", "100")
	require.NoError(t, err)

	out, err = run(t, apiURL, "", "projects", "list", "--status", "completed")
	require.NoError(t, err)
	assert.Contains(t, out, "Billing")
	assert.NotContains(t, out, "Portal")

	out, err = run(t, apiURL, "", "projects", "list", "--status", "all")
	require.NoError(t, err)
	assert.Contains(t, out, "Billing")
	assert.Contains(t, out, "Portal")

	_, err = run(t, apiURL, "", "projects", "edit", "1", "--progress", "60", "--status", "in-progress")
	require.NoError(t, err)
	p, err = c.GetProject(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 60, p.Progress)
	assert.Equal(t, models.StatusInProgress, p.Status)
	assert.Equal(t, models.StringArray{"Go", "React"}, p.Technologies)
	assert.Equal(t, "Portal", p.Title)

	out, err = run(t, apiURL, "", "projects", "get", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Ana")
	assert.Contains(t, out, "ana@example.com")

	out, err = run(t, apiURL, "n\n", "projects", "delete", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Are you sure you want to delete this project?")
	assert.Contains(t, out, "Aborted")

	_, err = run(t, apiURL, "y\n", "projects", "delete", "1")
	require.NoError(t, err)
	_, err = c.GetProject(context.Background(), 1)
	assert.True(t, client.IsNotFound(err))
}

func TestProjectEditRejectsBadProgress(t *testing.T) {
	apiURL, c := newAPI(t)
	seedMember(t, c, "Ana", "ana@example.com")
	_, err := run(t, apiURL, "", "projects", "create", "--title", "Portal", "--member", "1")
	require.NoError(t, err)

	_, err = run(t, apiURL, "", "projects", "edit", "1", "--progress", "120")
	var fe *client.FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "progress", fe.Field)
}

func TestStatsAndHealth(t *testing.T) {
	apiURL, c := newAPI(t)
	seedMember(t, c, "Ana", "ana@example.com")
	_, err := run(t, apiURL, "", "projects", "create", "--title", "Portal", "--member", "1", "--progress", "40")
	require.NoError(t, err)

	out, err := run(t, apiURL, "", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "1 members · 1 projects")
	assert.Contains(t, out, "40%")
	assert.Contains(t, out, "Ana")

	out, err = run(t, apiURL, "", "health")
	require.NoError(t, err)
	assert.Contains(t, out, "OK")
	assert.Contains(t, out, "up")
	assert.NotContains(t, out, "Redis")
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, []client.Skill{{SkillName: "Go", Proficiency: "expert"}, {SkillName: "SQL"}},
		parseSkills([]string{"Go: expert", " : nope", "SQL"}))

	_, err := parseID("abc")
	assert.Error(t, err)
	_, err = parseID("0")
	assert.Error(t, err)
	id, err := parseID("7")
	require.NoError(t, err)
	assert.Equal(t, uint(7), id)

	assert.Equal(t, "█████░░░░░", bar(1, 2))
	assert.Equal(t, "░░░░░░░░░░", bar(0, 0))
	assert.Equal(t, "a · b", joinNonEmpty(" · ", "a", " ", "b"))
	assert.Equal(t, "1 project", plural(1, "project"))
}
