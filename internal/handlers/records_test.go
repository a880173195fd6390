package handlers

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/recordbook/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRecord(t *testing.T) {
	t.Run("sets the session user as owner", func(t *testing.T) {
		env := newTestEnv(t)
		userID, token := env.register(t, "alice", "a@test.com", "Password123!")

		resp := env.do(t, http.MethodPost, "/record", token, RecordUpsertRequest{
			FirstName: "Ada",
			LastName:  "Lovelace",
			Email:     "ada@test.com",
		})
		require.Equal(t, http.StatusCreated, resp.Code)
		assert.Equal(t, userID, decodeJSON[types.Record](t, resp).OwnerID)
	})

	t.Run("requires first name", func(t *testing.T) {
		env := newTestEnv(t)
		_, token := env.register(t, "alice", "a@test.com", "Password123!")

		resp := env.do(t, http.MethodPost, "/record", token, RecordUpsertRequest{LastName: "Lovelace"})
		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("unknown category reference", func(t *testing.T) {
		env := newTestEnv(t)
		_, token := env.register(t, "alice", "a@test.com", "Password123!")

		missing := uuid.New()
		resp := env.do(t, http.MethodPost, "/record", token, RecordUpsertRequest{
			FirstName:  "Ada",
			CategoryID: &missing,
		})
		assert.Equal(t, http.StatusNotFound, resp.Code)
		assert.Equal(t, "Category not found.", decodeJSON[MessageResponse](t, resp).Message)
	})
}

func TestListRecords(t *testing.T) {
	env := newTestEnv(t)
	_, aliceToken := env.register(t, "alice", "a@test.com", "Password123!")
	_, bobToken := env.register(t, "bob", "b@test.com", "Password123!")

	require.Equal(t, http.StatusCreated,
		env.do(t, http.MethodPost, "/record", aliceToken, RecordUpsertRequest{FirstName: "mine"}).Code)
	require.Equal(t, http.StatusCreated,
		env.do(t, http.MethodPost, "/record", bobToken, RecordUpsertRequest{FirstName: "theirs"}).Code)

	t.Run("scoped to the session user", func(t *testing.T) {
		resp := env.do(t, http.MethodGet, "/record", aliceToken, nil)
		require.Equal(t, http.StatusOK, resp.Code)

		records := decodeJSON[[]types.Record](t, resp)
		require.Len(t, records, 1)
		assert.Equal(t, "mine", records[0].FirstName)
	})

	t.Run("requires a session", func(t *testing.T) {
		resp := env.do(t, http.MethodGet, "/record", "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	})
}

func TestGetRecord(t *testing.T) {
	env := newTestEnv(t)
	_, aliceToken := env.register(t, "alice", "a@test.com", "Password123!")
	_, bobToken := env.register(t, "bob", "b@test.com", "Password123!")
	record := decodeJSON[types.Record](t, env.do(t, http.MethodPost, "/record", aliceToken, RecordUpsertRequest{
		FirstName: "Ada",
	}))

	t.Run("owner reads it", func(t *testing.T) {
		resp := env.do(t, http.MethodGet, "/record/"+record.ID.String(), aliceToken, nil)
		require.Equal(t, http.StatusOK, resp.Code)
		assert.Equal(t, record.ID, decodeJSON[types.Record](t, resp).ID)
	})

	t.Run("records are private to their owner", func(t *testing.T) {
		resp := env.do(t, http.MethodGet, "/record/"+record.ID.String(), bobToken, nil)
		assert.Equal(t, http.StatusForbidden, resp.Code)
		assert.Equal(t, "Unauthorized. Only the owner can access this record.",
			decodeJSON[MessageResponse](t, resp).Message)
	})

	t.Run("malformed id is not found", func(t *testing.T) {
		resp := env.do(t, http.MethodGet, "/record/not-a-uuid", aliceToken, nil)
		assert.Equal(t, http.StatusNotFound, resp.Code)
	})

	t.Run("unknown id", func(t *testing.T) {
		resp := env.do(t, http.MethodGet, "/record/"+uuid.NewString(), aliceToken, nil)
		assert.Equal(t, http.StatusNotFound, resp.Code)
	})
}

func TestUpdateRecord(t *testing.T) {
	t.Run("owner updates fields and category", func(t *testing.T) {
		env := newTestEnv(t)
		_, token := env.register(t, "alice", "a@test.com", "Password123!")
		category := decodeJSON[types.Category](t, env.do(t, http.MethodPost, "/category", token, CategoryUpsertRequest{
			Name: "Work",
		}))
		record := decodeJSON[types.Record](t, env.do(t, http.MethodPost, "/record", token, RecordUpsertRequest{
			FirstName: "Ada",
		}))

		resp := env.do(t, http.MethodPut, "/record/"+record.ID.String(), token, RecordUpsertRequest{
			FirstName:  "Ada",
			LastName:   "Lovelace",
			CategoryID: &category.ID,
		})
		require.Equal(t, http.StatusOK, resp.Code)

		updated := decodeJSON[types.Record](t, resp)
		assert.Equal(t, "Lovelace", updated.LastName)
		require.NotNil(t, updated.CategoryID)
		assert.Equal(t, category.ID, *updated.CategoryID)
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		env := newTestEnv(t)
		_, aliceToken := env.register(t, "alice", "a@test.com", "Password123!")
		_, bobToken := env.register(t, "bob", "b@test.com", "Password123!")
		record := decodeJSON[types.Record](t, env.do(t, http.MethodPost, "/record", aliceToken, RecordUpsertRequest{
			FirstName: "Ada",
		}))

		resp := env.do(t, http.MethodPut, "/record/"+record.ID.String(), bobToken, RecordUpsertRequest{
			FirstName: "Hijacked",
		})
		assert.Equal(t, http.StatusForbidden, resp.Code)
		assert.Equal(t, "Ada", env.records.records[0].FirstName)
	})
}

func TestDeleteRecord(t *testing.T) {
	env := newTestEnv(t)
	_, aliceToken := env.register(t, "alice", "a@test.com", "Password123!")
	_, bobToken := env.register(t, "bob", "b@test.com", "Password123!")
	record := decodeJSON[types.Record](t, env.do(t, http.MethodPost, "/record", aliceToken, RecordUpsertRequest{
		FirstName: "Ada",
	}))

	t.Run("non-owner is forbidden", func(t *testing.T) {
		resp := env.do(t, http.MethodDelete, "/record/"+record.ID.String(), bobToken, nil)
		assert.Equal(t, http.StatusForbidden, resp.Code)
		assert.Len(t, env.records.records, 1)
	})

	t.Run("owner deletes it", func(t *testing.T) {
		resp := env.do(t, http.MethodDelete, "/record/"+record.ID.String(), aliceToken, nil)
		require.Equal(t, http.StatusNoContent, resp.Code)
		assert.Empty(t, env.records.records)
	})
}
