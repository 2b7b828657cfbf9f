package contact

import (
	"context"
	"testing"
	"time"

	"github.com/eventura-app/server/internal/domain/faults"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	nextID   int64
	messages map[int64]*Message
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{messages: map[int64]*Message{}}
}

func (f *fakeRepo) Create(_ context.Context, params CreateParams) (*Message, error) {
	f.nextID++
	message := &Message{
		ID:        f.nextID,
		Name:      params.Name,
		Email:     params.Email,
		Subject:   params.Subject,
		Message:   params.Message,
		CreatedAt: time.Now(),
	}
	f.messages[message.ID] = message
	return message, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*Message, error) {
	if message, ok := f.messages[id]; ok {
		copied := *message
		return &copied, nil
	}
	return nil, ErrNotFound
}

func (f *fakeRepo) ListAll(_ context.Context) ([]Message, error) {
	var out []Message
	for _, message := range f.messages {
		out = append(out, *message)
	}
	return out, nil
}

func (f *fakeRepo) ListUnread(_ context.Context) ([]Message, error) {
	var out []Message
	for _, message := range f.messages {
		if !message.Read {
			out = append(out, *message)
		}
	}
	return out, nil
}

func (f *fakeRepo) CountUnread(_ context.Context) (int64, error) {
	var count int64
	for _, message := range f.messages {
		if !message.Read {
			count++
		}
	}
	return count, nil
}

func (f *fakeRepo) MarkRead(_ context.Context, id int64) error {
	message, ok := f.messages[id]
	if !ok {
		return ErrNotFound
	}
	message.Read = true
	return nil
}

func TestSubmitSanitizes(t *testing.T) {
	service := NewService(newFakeRepo())

	message, err := service.Submit(context.Background(), SubmitParams{
		Name:    "Olivia <script>x</script>",
		Email:   "Olivia@Example.com",
		Subject: "Hello <b>there</b>",
		Message: "Plain text body",
	})
	require.NoError(t, err)
	require.Equal(t, "Olivia", message.Name)
	require.Equal(t, "olivia@example.com", message.Email)
	require.Equal(t, "Hello there", message.Subject)
}

func TestUnreadCountTracksMarkRead(t *testing.T) {
	service := NewService(newFakeRepo())
	ctx := context.Background()

	first, err := service.Submit(ctx, SubmitParams{Name: "a", Email: "a@b.c", Subject: "s", Message: "m"})
	require.NoError(t, err)
	_, err = service.Submit(ctx, SubmitParams{Name: "b", Email: "b@b.c", Subject: "s", Message: "m"})
	require.NoError(t, err)

	count, err := service.UnreadCount(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(2), count)

	require.NoError(t, service.MarkRead(ctx, first.ID))

	unread, err := service.ListUnread(ctx)
	require.NoError(t, err)
	count, err = service.UnreadCount(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(len(unread)), count)
	require.Equal(t, int64(1), count)
}

func TestMarkReadAbsentIsNotFoundFault(t *testing.T) {
	service := NewService(newFakeRepo())

	err := service.MarkRead(context.Background(), 404)
	require.Equal(t, faults.KindNotFound, faults.KindOf(err))
	require.Equal(t, "Contact message 404 not found", err.Error())
}
