package hiscores

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/dpscalc/internal/model"
	"github.com/udisondev/dpscalc/internal/testutil"
)

const sampleCSV = `1234,2277,460000000
5000,99,13034431
6000,90,5346332
7000,99,13100000
8000,99,14000000
9000,-1,-1
10000,77,1500000
11000,94,8000000
`

func TestParse(t *testing.T) {
	levels, err := Parse(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	assert.Equal(t, 99, levels[model.SkillAttack])
	assert.Equal(t, 90, levels[model.SkillDefence])
	assert.Equal(t, 99, levels[model.SkillStrength])
	assert.Equal(t, 99, levels[model.SkillHitpoints])
	assert.Equal(t, 1, levels[model.SkillRanged], "unranked skills floor at 1")
	assert.Equal(t, 94, levels[model.SkillMagic])
	_, ok := levels[model.SkillSlayer]
	assert.False(t, ok)
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse(strings.NewReader(""))
	assert.Error(t, err)

	_, err = Parse(strings.NewReader("1,abc,3\n"))
	assert.Error(t, err)

	_, err = Parse(strings.NewReader("garbage\n"))
	assert.Error(t, err)
}

func TestParse_FullResponse(t *testing.T) {
	// the live endpoint appends activity and boss rows after the skills
	body := testutil.HiscoresCSV(80) + "-1,-1\n12,345\n"
	levels, err := Parse(strings.NewReader(body))
	require.NoError(t, err)

	assert.Len(t, levels, len(model.HiscoreSkillOrder))
	assert.Equal(t, 80, levels[model.SkillSlayer])
	assert.Equal(t, 80*23, levels["Overall"])
}

func TestLevels_Apply(t *testing.T) {
	levels, err := Parse(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	c := model.NewCombatant("Zezima")
	levels.Apply(c)

	assert.Equal(t, 99, c.Level(model.SkillAttack))
	cur, max := c.HP()
	assert.Equal(t, 99, cur)
	assert.Equal(t, 99, max)
}

func TestClient_Fetch(t *testing.T) {
	var gotPlayer string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/index_lite.ws", r.URL.Path)
		gotPlayer = r.URL.Query().Get("player")
		if gotPlayer == "nobody" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(sampleCSV))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", time.Second)

	levels, err := c.Fetch(context.Background(), " Iron Man ")
	require.NoError(t, err)
	assert.Equal(t, "Iron Man", gotPlayer)
	assert.Equal(t, 99, levels[model.SkillStrength])

	_, err = c.Fetch(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrPlayerNotFound)

	_, err = c.Fetch(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrEmptyUsername)
}

func TestClient_FetchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).Fetch(context.Background(), "Zezima")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestClient_FetchCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sampleCSV))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).Fetch(testutil.CancelledContext(t), "Zezima")
	assert.ErrorIs(t, err, context.Canceled)
}
