// Package conversation turns a flat message log into per-counterpart
// conversation summaries. It is pure aggregation: callers fetch the messages
// and resolve profiles; this package only groups, counts and orders.
package conversation

import (
	"context"
	"sort"
	"strings"

	"helphub-backend/internal/models"
)

// ProfileFunc resolves a user's public profile. A nil profile or an error
// degrades the summary to a placeholder name, never fails the aggregation.
type ProfileFunc func(ctx context.Context, userID string) (*models.PublicProfile, error)

// PairKey returns a stable symmetric key for two participant identities:
// the sorted pair joined with "_". PairKey(a, b) == PairKey(b, a).
func PairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "_" + b
}

// Counterpart returns the other participant of a message relative to userID.
func Counterpart(userID string, msg models.Message) string {
	if msg.SenderID == userID {
		return msg.ReceiverID
	}
	return msg.SenderID
}

// Partition groups msgs by symmetric pair key, preserving input order within
// each group. Messages not touching userID are dropped. The resulting groups
// are pairwise disjoint and their union is exactly the input restricted to
// pairs touching userID.
func Partition(userID string, msgs []models.Message) map[string][]models.Message {
	groups := make(map[string][]models.Message)
	for _, msg := range msgs {
		if msg.SenderID != userID && msg.ReceiverID != userID {
			continue
		}
		key := PairKey(userID, Counterpart(userID, msg))
		groups[key] = append(groups[key], msg)
	}
	return groups
}

// IsUnread reports whether msg counts as unread for userID: addressed to the
// user and the read flag is not true (false and unknown both count).
func IsUnread(userID string, msg models.Message) bool {
	return msg.ReceiverID == userID && (msg.IsRead == nil || !*msg.IsRead)
}

// UnreadIDs returns the IDs of messages in msgs that are unread for userID,
// in input order. This is the batch a fetch must mark as read.
func UnreadIDs(userID string, msgs []models.Message) []string {
	var ids []string
	for _, msg := range msgs {
		if IsUnread(userID, msg) {
			ids = append(ids, msg.ID)
		}
	}
	return ids
}

// FilterPair keeps only messages exchanged between exactly userID and otherID,
// in either direction. The store-level participant filter is a union, not an
// intersection, so this exact-pair pass is required after every fetch.
func FilterPair(userID, otherID string, msgs []models.Message) []models.Message {
	filtered := make([]models.Message, 0, len(msgs))
	for _, msg := range msgs {
		if (msg.SenderID == userID && msg.ReceiverID == otherID) ||
			(msg.SenderID == otherID && msg.ReceiverID == userID) {
			filtered = append(filtered, msg)
		}
	}
	return filtered
}

// Summaries builds the conversation list for userID from msgs, which must be
// ordered by creation time descending so the first message of each partition
// is the most recent. Each counterpart's profile is resolved individually via
// profiles; lookup failures fall back to a placeholder. The result is ordered
// by last-message time descending. The final sort is redundant given the
// input ordering but guards against partition-build reordering.
func Summaries(ctx context.Context, userID string, msgs []models.Message, profiles ProfileFunc) []models.Conversation {
	groups := Partition(userID, msgs)

	convs := make([]models.Conversation, 0, len(groups))
	for _, group := range groups {
		if len(group) == 0 {
			continue
		}

		last := group[0]
		otherID := Counterpart(userID, last)

		name := "Unknown"
		var avatar *string
		if profiles != nil {
			if profile, err := profiles(ctx, otherID); err == nil && profile != nil {
				if strings.TrimSpace(profile.FullName) != "" {
					name = profile.FullName
				}
				avatar = profile.AvatarURL
			}
		}

		unread := 0
		for _, msg := range group {
			if IsUnread(userID, msg) {
				unread++
			}
		}

		convs = append(convs, models.Conversation{
			ID:              PairKey(userID, otherID),
			OtherUserID:     otherID,
			OtherUserName:   name,
			OtherUserAvatar: avatar,
			LastMessage:     last.Content,
			LastMessageTime: last.CreatedAt,
			IsRead:          last.IsRead,
			UnreadCount:     unread,
			RequestID:       last.RequestID,
		})
	}

	sort.SliceStable(convs, func(i, j int) bool {
		return convs[i].LastMessageTime.After(convs[j].LastMessageTime)
	})
	return convs
}
