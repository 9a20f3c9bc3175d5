package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Eco-nexion/econexion/internal/models"
)

func TestCanCreatePost(t *testing.T) {
	valid := CreatePostInput{Title: "PET bales", WasteType: "plastic", Quantity: 120, Price: 30, Location: "Medellin"}

	require.NoError(t, CanCreatePost(generatorSession(), valid))
	require.ErrorIs(t, CanCreatePost(Session{}, valid), ErrNotSignedIn)
	require.ErrorIs(t, CanCreatePost(recyclerSession(), valid), ErrWrongRole)

	bad := valid
	bad.Quantity = 0
	require.ErrorIs(t, CanCreatePost(generatorSession(), bad), ErrInvalidPost)

	bad = valid
	bad.Title = "   "
	require.ErrorIs(t, CanCreatePost(generatorSession(), bad), ErrInvalidPost)

	bad = valid
	bad.Price = -1
	require.ErrorIs(t, CanCreatePost(generatorSession(), bad), ErrInvalidPost)
}

func TestCanCreateOffer(t *testing.T) {
	post := Post{ID: "p1", UserID: "u1"}

	require.NoError(t, CanCreateOffer(recyclerSession(), post, 50))
	require.ErrorIs(t, CanCreateOffer(Session{}, post, 50), ErrNotSignedIn)
	require.ErrorIs(t, CanCreateOffer(generatorSession(), post, 50), ErrWrongRole)
	require.ErrorIs(t, CanCreateOffer(recyclerSession(), post, 0), ErrInvalidAmount)
	require.ErrorIs(t, CanCreateOffer(recyclerSession(), post, -5), ErrInvalidAmount)
}

func TestCanDecideOffer(t *testing.T) {
	post := Post{ID: "p1", UserID: "u1"}
	pending := Offer{ID: "o1", PostID: "p1", UserID: "u2", Status: models.OfferStatusPending}

	require.NoError(t, CanDecideOffer(generatorSession(), post, pending))
	require.ErrorIs(t, CanDecideOffer(Session{}, post, pending), ErrNotSignedIn)
	require.ErrorIs(t, CanDecideOffer(recyclerSession(), post, pending), ErrNotPostOwner)

	for _, status := range []models.OfferStatus{
		models.OfferStatusAccepted,
		models.OfferStatusRejected,
		models.OfferStatusCompleted,
	} {
		decided := pending
		decided.Status = status
		require.ErrorIs(t, CanDecideOffer(generatorSession(), post, decided), ErrOfferNotPending)
	}
}

func TestCanCompleteOffer(t *testing.T) {
	post := Post{ID: "p1", UserID: "u1"}
	accepted := Offer{ID: "o1", PostID: "p1", UserID: "u2", Status: models.OfferStatusAccepted}

	require.NoError(t, CanCompleteOffer(generatorSession(), post, accepted), "post owner may complete")
	require.NoError(t, CanCompleteOffer(recyclerSession(), post, accepted), "offer creator may complete")

	outsider := Session{Token: "t", User: &User{ID: "u3", Role: models.RoleRecycler}}
	require.ErrorIs(t, CanCompleteOffer(outsider, post, accepted), ErrNotPostOwner)

	for _, status := range []models.OfferStatus{
		models.OfferStatusPending,
		models.OfferStatusRejected,
		models.OfferStatusCompleted,
	} {
		offer := accepted
		offer.Status = status
		require.ErrorIs(t, CanCompleteOffer(generatorSession(), post, offer), ErrOfferNotOpen)
	}
}

func TestCanDeleteOffer(t *testing.T) {
	pending := Offer{ID: "o1", UserID: "u2", Status: models.OfferStatusPending}

	require.NoError(t, CanDeleteOffer(recyclerSession(), pending))
	require.ErrorIs(t, CanDeleteOffer(generatorSession(), pending), ErrNotOfferOwner)

	accepted := pending
	accepted.Status = models.OfferStatusAccepted
	require.ErrorIs(t, CanDeleteOffer(recyclerSession(), accepted), ErrOfferNotPending)
}

// Precondition failures must resolve entirely on the client; the backend is
// only reached once the local rules pass.
func TestOfferActionsFailLocallyWithoutNetwork(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	ctx := context.Background()
	api := New(server.URL)

	post := Post{ID: "p1", UserID: "u1"}
	accepted := Offer{ID: "o1", PostID: "p1", UserID: "u2", Status: models.OfferStatusAccepted}

	// Not the post owner.
	_, err := api.AcceptOffer(ctx, recyclerSession(), post, accepted)
	require.ErrorIs(t, err, ErrNotPostOwner)

	// Already decided.
	_, err = api.AcceptOffer(ctx, generatorSession(), post, accepted)
	require.ErrorIs(t, err, ErrOfferNotPending)
	_, err = api.RejectOffer(ctx, generatorSession(), post, accepted)
	require.ErrorIs(t, err, ErrOfferNotPending)

	// Wrong role for bidding, bad amount.
	_, err = api.CreateOffer(ctx, generatorSession(), post, CreateOfferInput{Amount: 10})
	require.ErrorIs(t, err, ErrWrongRole)
	_, err = api.CreateOffer(ctx, recyclerSession(), post, CreateOfferInput{Amount: 0})
	require.ErrorIs(t, err, ErrInvalidAmount)

	// Withdrawing someone else's offer.
	err = api.DeleteOffer(ctx, generatorSession(), accepted)
	require.ErrorIs(t, err, ErrNotOfferOwner)

	require.Zero(t, calls.Load(), "locally rejected actions must not reach the backend")
}

// Deleting a post invalidates its offers server-side. A stale local offer
// still passes local checks, and the backend's 404 is surfaced so the caller
// re-fetches instead of trusting the cached copy.
func TestStaleOfferReconciledAgainstBackend(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "offer not found"})
	}))
	defer server.Close()

	api := New(server.URL)
	post := Post{ID: "p1", UserID: "u1"}
	stale := Offer{ID: "o1", PostID: "p1", UserID: "u2", Status: models.OfferStatusPending}

	_, err := api.AcceptOffer(context.Background(), generatorSession(), post, stale)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusNotFound, apiErr.Status)
	require.Equal(t, "offer not found", apiErr.Message)
}
