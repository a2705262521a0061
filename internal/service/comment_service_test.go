package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk/internal/domain"
)

type commentFixture struct {
	service  *CommentService
	tickets  *fakeTicketRepo
	comments *fakeCommentRepo
	users    *fakeUserRepo
	blobs    *fakeBlobStore
}

func newCommentFixture(users ...domain.User) *commentFixture {
	f := &commentFixture{
		tickets:  newFakeTicketRepo(),
		comments: newFakeCommentRepo(),
		users:    newFakeUserRepo(users...),
		blobs:    &fakeBlobStore{},
	}
	f.service = NewCommentService(CommentDependencies{
		TicketRepo:  f.tickets,
		CommentRepo: f.comments,
		UserRepo:    f.users,
		Blobs:       f.blobs,
	})
	return f
}

func (f *commentFixture) seedTicket(t *testing.T, owner domain.User) *domain.Ticket {
	t.Helper()
	ticket := &domain.Ticket{
		UserID:      owner.ID,
		Title:       "seed",
		Description: "seed",
		Status:      domain.TicketStatusOpen,
		Priority:    domain.TicketPriorityMedium,
	}
	require.NoError(t, f.tickets.Create(context.Background(), ticket))
	return ticket
}

func TestCommentCreate(t *testing.T) {
	f := newCommentFixture(alice, bob, agent)
	ctx := context.Background()
	ticket := f.seedTicket(t, alice)

	t.Run("owner comments", func(t *testing.T) {
		comment, err := f.service.Create(ctx, actorOf(alice), ticket.ID, CommentCreateInput{Content: "any update?"})
		require.NoError(t, err)
		assert.Equal(t, ticket.ID, comment.TicketID)
		assert.Equal(t, alice.ID, comment.UserID)
		require.NotNil(t, comment.Author)
		assert.Equal(t, alice.Name, comment.Author.Name)
	})

	t.Run("agent comments on a ticket they do not own", func(t *testing.T) {
		_, err := f.service.Create(ctx, actorOf(agent), ticket.ID, CommentCreateInput{Content: "looking into it"})
		require.NoError(t, err)
	})

	t.Run("other user is forbidden", func(t *testing.T) {
		_, err := f.service.Create(ctx, actorOf(bob), ticket.ID, CommentCreateInput{Content: "me too"})
		requireDomainErr(t, err, "FORBIDDEN")
	})

	t.Run("empty content", func(t *testing.T) {
		_, err := f.service.Create(ctx, actorOf(alice), ticket.ID, CommentCreateInput{Content: "   "})
		requireDomainErr(t, err, "VALIDATION_FAILED")
	})

	t.Run("missing ticket", func(t *testing.T) {
		_, err := f.service.Create(ctx, actorOf(alice), "no-such", CommentCreateInput{Content: "hello"})
		requireDomainErr(t, err, "NOT_FOUND")
	})
}

func TestCommentAttachmentTooLarge(t *testing.T) {
	f := newCommentFixture(alice)
	ctx := context.Background()
	ticket := f.seedTicket(t, alice)

	_, err := f.service.Create(ctx, actorOf(alice), ticket.ID, CommentCreateInput{
		Content: "see attached",
		Attachment: &FileUpload{
			FileName: "dump.bin",
			Size:     3 * 1024 * 1024,
			Reader:   bytes.NewReader(nil),
		},
	})
	requireDomainErr(t, err, "VALIDATION_FAILED")

	// The rejection happens before anything is stored.
	assert.Empty(t, f.comments.comments)
	assert.Zero(t, f.blobs.puts)
}

func TestCommentAttachmentStreamClosed(t *testing.T) {
	f := newCommentFixture(alice)
	ctx := context.Background()
	ticket := f.seedTicket(t, alice)

	t.Run("closed after create", func(t *testing.T) {
		reader := &closeTrackingReader{Reader: bytes.NewReader(nil)}
		_, err := f.service.Create(ctx, actorOf(alice), ticket.ID, CommentCreateInput{
			Content:    "see attached",
			Attachment: &FileUpload{FileName: "log.txt", Size: 64, Reader: reader},
		})
		require.NoError(t, err)
		assert.True(t, reader.closed)
	})

	t.Run("closed when size rejected", func(t *testing.T) {
		reader := &closeTrackingReader{Reader: bytes.NewReader(nil)}
		_, err := f.service.Create(ctx, actorOf(alice), ticket.ID, CommentCreateInput{
			Content:    "see attached",
			Attachment: &FileUpload{FileName: "dump.bin", Size: 3 * 1024 * 1024, Reader: reader},
		})
		requireDomainErr(t, err, "VALIDATION_FAILED")
		assert.True(t, reader.closed)
	})
}

func TestCommentList(t *testing.T) {
	f := newCommentFixture(alice, bob, agent)
	ctx := context.Background()
	ticket := f.seedTicket(t, alice)

	_, err := f.service.Create(ctx, actorOf(alice), ticket.ID, CommentCreateInput{Content: "first"})
	require.NoError(t, err)
	_, err = f.service.Create(ctx, actorOf(agent), ticket.ID, CommentCreateInput{Content: "second"})
	require.NoError(t, err)

	comments, err := f.service.ListByTicket(ctx, actorOf(alice), ticket.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].Content)
	assert.Equal(t, "second", comments[1].Content)

	_, err = f.service.ListByTicket(ctx, actorOf(bob), ticket.ID)
	requireDomainErr(t, err, "FORBIDDEN")

	_, err = f.service.ListByTicket(ctx, actorOf(alice), "no-such")
	requireDomainErr(t, err, "NOT_FOUND")
}
