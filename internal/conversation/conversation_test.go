package conversation

import (
	"context"
	"sort"
	"testing"
	"time"

	"helphub-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(v bool) *bool { return &v }

var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func msg(id, from, to, content string, read *bool, offsetMin int) models.Message {
	return models.Message{
		ID:         id,
		SenderID:   from,
		ReceiverID: to,
		Content:    content,
		IsRead:     read,
		CreatedAt:  baseTime.Add(time.Duration(offsetMin) * time.Minute),
	}
}

// byCreatedDesc mirrors the store's fetch ordering for the summary input.
func byCreatedDesc(msgs []models.Message) []models.Message {
	sorted := append([]models.Message(nil), msgs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	return sorted
}

func staticProfiles(names map[string]string) ProfileFunc {
	return func(_ context.Context, userID string) (*models.PublicProfile, error) {
		name, ok := names[userID]
		if !ok {
			return nil, nil
		}
		return &models.PublicProfile{UserID: userID, FullName: name}, nil
	}
}

func TestPairKeySymmetric(t *testing.T) {
	assert.Equal(t, PairKey("alice", "bob"), PairKey("bob", "alice"))
	assert.Equal(t, "alice_bob", PairKey("bob", "alice"))
}

func TestPartitionDisjointAndCovering(t *testing.T) {
	msgs := []models.Message{
		msg("m1", "u1", "u2", "hi", boolPtr(false), 5),
		msg("m2", "u2", "u1", "hey", boolPtr(true), 4),
		msg("m3", "u3", "u1", "yo", nil, 3),
		msg("m4", "u1", "u3", "sup", boolPtr(false), 2),
		msg("m5", "u4", "u5", "unrelated", boolPtr(false), 1),
	}

	groups := Partition("u1", msgs)
	require.Len(t, groups, 2)

	seen := make(map[string]string)
	total := 0
	for key, group := range groups {
		for _, m := range group {
			prev, dup := seen[m.ID]
			require.False(t, dup, "message %s in both %s and %s", m.ID, prev, key)
			seen[m.ID] = key
			total++
		}
	}
	// Union is exactly the input restricted to pairs touching u1.
	assert.Equal(t, 4, total)
	assert.NotContains(t, seen, "m5")
}

func TestPartitionPreservesOrder(t *testing.T) {
	msgs := byCreatedDesc([]models.Message{
		msg("m1", "u1", "u2", "first", nil, 1),
		msg("m2", "u2", "u1", "second", nil, 2),
		msg("m3", "u1", "u2", "third", nil, 3),
	})

	groups := Partition("u1", msgs)
	group := groups[PairKey("u1", "u2")]
	require.Len(t, group, 3)
	assert.Equal(t, "m3", group[0].ID)
	assert.Equal(t, "m1", group[2].ID)
}

func TestSummariesUnreadCountAndLastMessage(t *testing.T) {
	msgs := byCreatedDesc([]models.Message{
		msg("m1", "u2", "u1", "oldest unread", boolPtr(false), 1),
		msg("m2", "u2", "u1", "null flag counts as unread", nil, 2),
		msg("m3", "u1", "u2", "my own message never counts", boolPtr(false), 3),
		msg("m4", "u2", "u1", "already read", boolPtr(true), 4),
		msg("m5", "u2", "u1", "latest", boolPtr(false), 5),
	})

	convs := Summaries(context.Background(), "u1", msgs, staticProfiles(map[string]string{"u2": "Bea"}))
	require.Len(t, convs, 1)

	conv := convs[0]
	assert.Equal(t, "u2", conv.OtherUserID)
	assert.Equal(t, "Bea", conv.OtherUserName)
	assert.Equal(t, "latest", conv.LastMessage)
	assert.Equal(t, 3, conv.UnreadCount)
	assert.Equal(t, PairKey("u1", "u2"), conv.ID)
}

func TestSummariesOrderedByRecency(t *testing.T) {
	msgs := byCreatedDesc([]models.Message{
		msg("m1", "u2", "u1", "old thread", boolPtr(true), 1),
		msg("m2", "u3", "u1", "newer thread", boolPtr(true), 10),
		msg("m3", "u4", "u1", "newest thread", boolPtr(true), 20),
	})

	convs := Summaries(context.Background(), "u1", msgs, nil)
	require.Len(t, convs, 3)
	assert.Equal(t, "u4", convs[0].OtherUserID)
	assert.Equal(t, "u3", convs[1].OtherUserID)
	assert.Equal(t, "u2", convs[2].OtherUserID)
}

func TestSummariesProfileFallback(t *testing.T) {
	msgs := []models.Message{msg("m1", "u2", "u1", "hello", nil, 1)}

	convs := Summaries(context.Background(), "u1", msgs, staticProfiles(nil))
	require.Len(t, convs, 1)
	assert.Equal(t, "Unknown", convs[0].OtherUserName)

	convs = Summaries(context.Background(), "u1", msgs, nil)
	require.Len(t, convs, 1)
	assert.Equal(t, "Unknown", convs[0].OtherUserName)
}

func TestSummariesIdempotent(t *testing.T) {
	msgs := byCreatedDesc([]models.Message{
		msg("m1", "u2", "u1", "a", boolPtr(false), 1),
		msg("m2", "u1", "u2", "b", nil, 2),
		msg("m3", "u3", "u1", "c", boolPtr(true), 3),
	})

	first := Summaries(context.Background(), "u1", msgs, nil)
	second := Summaries(context.Background(), "u1", msgs, nil)
	assert.Equal(t, first, second)
}

func TestFilterPairExactPairOnly(t *testing.T) {
	msgs := []models.Message{
		msg("m1", "u1", "u2", "keep", nil, 1),
		msg("m2", "u2", "u1", "keep", nil, 2),
		msg("m3", "u1", "u3", "drop: union filter leaks this", nil, 3),
		msg("m4", "u3", "u2", "drop: neither direction matches", nil, 4),
	}

	filtered := FilterPair("u1", "u2", msgs)
	require.Len(t, filtered, 2)
	assert.Equal(t, "m1", filtered[0].ID)
	assert.Equal(t, "m2", filtered[1].ID)
}

func TestSendThenFetchRoundTrip(t *testing.T) {
	history := []models.Message{
		msg("m1", "u2", "u1", "earlier", boolPtr(true), 1),
	}
	sent := msg("m2", "u1", "u2", "hello", boolPtr(false), 2)
	history = append(history, sent)

	filtered := FilterPair("u1", "u2", history)
	var matches []models.Message
	for _, m := range filtered {
		if m.Content == "hello" {
			matches = append(matches, m)
		}
	}
	require.Len(t, matches, 1)
	assert.Equal(t, "u1", matches[0].SenderID)
}

func TestReadStateMonotonicity(t *testing.T) {
	msgs := []models.Message{
		msg("m1", "u2", "u1", "a", boolPtr(false), 1),
		msg("m2", "u2", "u1", "b", nil, 2),
		msg("m3", "u1", "u2", "c", boolPtr(false), 3),
	}

	ids := UnreadIDs("u1", msgs)
	assert.Equal(t, []string{"m1", "m2"}, ids)

	// Apply the batched read-flag update the fetch would issue.
	marked := make(map[string]bool, len(ids))
	for _, id := range ids {
		marked[id] = true
	}
	for i := range msgs {
		if marked[msgs[i].ID] {
			msgs[i].IsRead = boolPtr(true)
		}
	}

	assert.Empty(t, UnreadIDs("u1", msgs))
	convs := Summaries(context.Background(), "u1", byCreatedDesc(msgs), nil)
	require.Len(t, convs, 1)
	assert.Equal(t, 0, convs[0].UnreadCount)
}
