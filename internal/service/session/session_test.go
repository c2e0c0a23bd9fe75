package session_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/alanyang/stlc-manager/internal/domain/process"
	domainsession "github.com/alanyang/stlc-manager/internal/domain/session"
	"github.com/alanyang/stlc-manager/internal/mocks"
	sessionsvc "github.com/alanyang/stlc-manager/internal/service/session"
)

func newSessionSvc(t *testing.T) (*sessionsvc.Service, *mocks.MockSessionRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockSessionRepository(ctrl)
	return sessionsvc.NewService(repo), repo
}

func validResult() domainsession.ProcessResult {
	return domainsession.ProcessResult{
		Output:     map[string]string{"files": "Files analyzed:\na.go", "review": "ok"},
		UsedPrompt: "Review: {code}",
		UsedModel:  "llama-3.2-1b-instruct",
	}
}

func TestSave_Success(t *testing.T) {
	svc, repo := newSessionSvc(t)
	r := validResult()
	repo.EXPECT().UpsertProcess(gomock.Any(), "s1", process.TypeCodeReview, r).Return(nil)

	require.NoError(t, svc.Save(context.Background(), "s1", process.TypeCodeReview, r))
}

func TestSave_MissingFieldSkipsStorage(t *testing.T) {
	svc, _ := newSessionSvc(t)
	r := validResult()
	r.UsedPrompt = ""

	err := svc.Save(context.Background(), "s1", process.TypeCodeReview, r)
	assert.True(t, errors.Is(err, domainsession.ErrMissingField))

	err = svc.Save(context.Background(), "", process.TypeCodeReview, validResult())
	assert.True(t, errors.Is(err, domainsession.ErrMissingField))
}

func TestSave_StorageError(t *testing.T) {
	svc, repo := newSessionSvc(t)
	repo.EXPECT().UpsertProcess(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("db error"))

	err := svc.Save(context.Background(), "s1", process.TypeCodeReview, validResult())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save session")
}

func TestGet(t *testing.T) {
	svc, repo := newSessionSvc(t)
	repo.EXPECT().Get(gomock.Any(), "s1").Return(domainsession.Record{SessionID: "s1"}, nil)
	repo.EXPECT().Get(gomock.Any(), "s2").Return(domainsession.Record{}, domainsession.ErrNotFound)

	rec, err := svc.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", rec.SessionID)

	_, err = svc.Get(context.Background(), "s2")
	assert.True(t, errors.Is(err, domainsession.ErrNotFound))
}
