package handlers_test

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type collectionBody struct {
	ID        uint   `json:"_id"`
	Name      string `json:"name"`
	Tags      []string
	Questions []struct {
		ID uint `json:"_id"`
	} `json:"questions"`
}

func createCollection(t *testing.T, env *testEnv, token, name string, tags []string, questions []uint) uint {
	t.Helper()

	w, resp := env.do(t, "POST", "/api/v1/collections", gin.H{
		"name":      name,
		"tags":      tags,
		"questions": questions,
	}, token)
	require.Equal(t, 201, w.Code, "create collection: %s", resp.Message)

	var c collectionBody
	require.NoError(t, json.Unmarshal(resp.Data, &c))
	return c.ID
}

func getCollections(t *testing.T, env *testEnv, query string) []collectionBody {
	t.Helper()

	w, resp := env.do(t, "GET", "/api/v1/collections"+query, nil, "")
	require.Equal(t, 200, w.Code, resp.Message)

	var collections []collectionBody
	require.NoError(t, json.Unmarshal(resp.Data, &collections))
	return collections
}

func TestCollectionLifecycle(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.registerAndLogin(t, "alice", "alice@example.com", "password123")

	id := createCollection(t, env, token, "weekly quiz", []string{"fun"}, nil)

	found := getCollections(t, env, fmt.Sprintf("?id=%d", id))
	require.Len(t, found, 1)
	assert.Equal(t, id, found[0].ID)
	assert.Equal(t, "weekly quiz", found[0].Name)

	w, resp := env.do(t, "DELETE", fmt.Sprintf("/api/v1/collections/%d", id), nil, token)
	require.Equal(t, 200, w.Code, resp.Message)

	w, resp = env.do(t, "DELETE", fmt.Sprintf("/api/v1/collections/%d", id), nil, token)
	assert.Equal(t, 404, w.Code)
	assert.Contains(t, resp.Message, "Collection not found")

	assert.Empty(t, getCollections(t, env, fmt.Sprintf("?id=%d", id)))
}

func TestCreateCollectionDuplicateName(t *testing.T) {
	env := newTestEnv(t)
	_, aliceToken := env.registerAndLogin(t, "alice", "alice@example.com", "password123")
	_, bobToken := env.registerAndLogin(t, "bob", "bob@example.com", "password123")

	createCollection(t, env, aliceToken, "weekly quiz", nil, nil)

	w, resp := env.do(t, "POST", "/api/v1/collections", gin.H{"name": "weekly quiz"}, aliceToken)
	assert.Equal(t, 400, w.Code)
	assert.Contains(t, resp.Message, "Collection already exists")

	// Uniqueness is per owner.
	createCollection(t, env, bobToken, "weekly quiz", nil, nil)
}

func TestCreateCollectionInvalidName(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.registerAndLogin(t, "alice", "alice@example.com", "password123")

	w, resp := env.do(t, "POST", "/api/v1/collections", gin.H{"name": "   "}, token)
	assert.Equal(t, 400, w.Code)
	assert.Contains(t, resp.Message, "Invalid name")
}

func TestEditCollection(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.registerAndLogin(t, "alice", "alice@example.com", "password123")

	q1 := createQuestion(t, env, token, "2+2?", []string{"3", "4"}, "4", nil)
	q2 := createQuestion(t, env, token, "3+3?", []string{"5", "6"}, "6", nil)

	id := createCollection(t, env, token, "math", []string{"easy"}, []uint{q1})
	target := fmt.Sprintf("/api/v1/collections/%d", id)

	w, resp := env.do(t, "PATCH", target, gin.H{"name": "arithmetic"}, token)
	require.Equal(t, 200, w.Code, resp.Message)

	var c collectionBody
	require.NoError(t, json.Unmarshal(resp.Data, &c))
	assert.Equal(t, "arithmetic", c.Name)
	require.Len(t, c.Questions, 1)
	assert.Equal(t, q1, c.Questions[0].ID)

	w, resp = env.do(t, "PATCH", target, gin.H{"questions": []uint{q1, q2}}, token)
	require.Equal(t, 200, w.Code, resp.Message)
	require.NoError(t, json.Unmarshal(resp.Data, &c))
	assert.Len(t, c.Questions, 2)

	w, resp = env.do(t, "PATCH", target, gin.H{"questions": []uint{}}, token)
	require.Equal(t, 200, w.Code, resp.Message)
	require.NoError(t, json.Unmarshal(resp.Data, &c))
	assert.Empty(t, c.Questions)
}

func TestEditCollectionDuplicateName(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.registerAndLogin(t, "alice", "alice@example.com", "password123")

	createCollection(t, env, token, "first", nil, nil)
	id := createCollection(t, env, token, "second", nil, nil)

	w, resp := env.do(t, "PATCH", fmt.Sprintf("/api/v1/collections/%d", id), gin.H{"name": "first"}, token)
	assert.Equal(t, 400, w.Code)
	assert.Contains(t, resp.Message, "Collection already exists")

	// Renaming to its own current name is a no-op, not a conflict.
	w, resp = env.do(t, "PATCH", fmt.Sprintf("/api/v1/collections/%d", id), gin.H{"name": "second"}, token)
	assert.Equal(t, 200, w.Code, resp.Message)
}

func TestCollectionOwnership(t *testing.T) {
	env := newTestEnv(t)
	_, aliceToken := env.registerAndLogin(t, "alice", "alice@example.com", "password123")
	_, bobToken := env.registerAndLogin(t, "bob", "bob@example.com", "password123")
	_, adminToken := env.registerAndLogin(t, "root", "root@example.com", "password123")
	env.grantAdmin(t, "root")

	id := createCollection(t, env, aliceToken, "weekly quiz", nil, nil)
	target := fmt.Sprintf("/api/v1/collections/%d", id)

	w, resp := env.do(t, "PATCH", target, gin.H{"name": "stolen"}, bobToken)
	assert.Equal(t, 400, w.Code)
	assert.Contains(t, resp.Message, "You need to be the owner or an admin")

	w, resp = env.do(t, "DELETE", target, nil, bobToken)
	assert.Equal(t, 400, w.Code)
	assert.Contains(t, resp.Message, "You need to be the owner or an admin")

	w, resp = env.do(t, "PATCH", target, gin.H{"name": "renamed by admin"}, adminToken)
	require.Equal(t, 200, w.Code, resp.Message)

	w, resp = env.do(t, "DELETE", target, nil, adminToken)
	require.Equal(t, 200, w.Code, resp.Message)
}

func TestCollectionDanglingMembership(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.registerAndLogin(t, "alice", "alice@example.com", "password123")

	q1 := createQuestion(t, env, token, "2+2?", []string{"3", "4"}, "4", nil)
	q2 := createQuestion(t, env, token, "3+3?", []string{"5", "6"}, "6", nil)
	id := createCollection(t, env, token, "math", nil, []uint{q1, q2})

	w, resp := env.do(t, "DELETE", fmt.Sprintf("/api/v1/questions/%d", q1), nil, token)
	require.Equal(t, 200, w.Code, resp.Message)

	// The stale membership row stays behind; population just skips it.
	found := getCollections(t, env, fmt.Sprintf("?id=%d", id))
	require.Len(t, found, 1)
	require.Len(t, found[0].Questions, 1)
	assert.Equal(t, q2, found[0].Questions[0].ID)
}

func TestListCollectionsFilters(t *testing.T) {
	env := newTestEnv(t)
	aliceID, aliceToken := env.registerAndLogin(t, "alice", "alice@example.com", "password123")
	_, bobToken := env.registerAndLogin(t, "bob", "bob@example.com", "password123")

	q1 := createQuestion(t, env, aliceToken, "2+2?", []string{"3", "4"}, "4", nil)
	q2 := createQuestion(t, env, aliceToken, "3+3?", []string{"5", "6"}, "6", nil)

	createCollection(t, env, aliceToken, "math basics", []string{"easy"}, []uint{q1, q2})
	createCollection(t, env, aliceToken, "math advanced", []string{"hard"}, []uint{q2})
	createCollection(t, env, bobToken, "trivia night", []string{"easy"}, nil)

	t.Run("by name substring", func(t *testing.T) {
		assert.Len(t, getCollections(t, env, "?name=MATH"), 2)
	})

	t.Run("by owner", func(t *testing.T) {
		assert.Len(t, getCollections(t, env, fmt.Sprintf("?owner=%d", aliceID)), 2)
	})

	t.Run("by tag", func(t *testing.T) {
		assert.Len(t, getCollections(t, env, "?tags=easy"), 2)
	})

	t.Run("containing every question", func(t *testing.T) {
		both := getCollections(t, env, fmt.Sprintf("?questions=%d&questions=%d", q1, q2))
		require.Len(t, both, 1)
		assert.Equal(t, "math basics", both[0].Name)

		assert.Len(t, getCollections(t, env, fmt.Sprintf("?questions=%d", q2)), 2)
	})

	t.Run("pagination", func(t *testing.T) {
		assert.Len(t, getCollections(t, env, "?page=2&limit=2"), 1)
	})
}
