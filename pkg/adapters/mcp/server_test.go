package mcp

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxygn-cloud-ai/cascade/pkg/domain"
)

type fakeController struct {
	startErr error
	started  []domain.NodeID
	paused   int
	canceled int
	skip     bool
}

func (f *fakeController) Start(_ context.Context, rootID domain.NodeID) error {
	if f.startErr != nil {
		return f.startErr
	}
	f.started = append(f.started, rootID)
	return nil
}
func (f *fakeController) Pause()                    { f.paused++ }
func (f *fakeController) Resume()                   {}
func (f *fakeController) Cancel()                   { f.canceled++ }
func (f *fakeController) SetSkipAllPreviews(v bool) { f.skip = v }
func (f *fakeController) Snapshot() domain.RunSnapshot {
	return domain.RunSnapshot{Status: domain.StatusRunning, RunID: "r1"}
}

func TestHandleStart(t *testing.T) {
	ctrl := &fakeController{}
	srv := NewServer(ctrl)

	resp, err := srv.handleStart(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{
		"root_id": "root",
	})
	require.NoError(t, err)
	assert.Equal(t, []domain.NodeID{"root"}, ctrl.started)
	assert.Equal(t, "r1", resp.Snapshot.RunID)
}

func TestHandleStart_Validation(t *testing.T) {
	srv := NewServer(&fakeController{})

	_, err := srv.handleStart(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{})
	assert.Error(t, err)
}

func TestHandleStart_ActiveRun(t *testing.T) {
	srv := NewServer(&fakeController{startErr: domain.ErrRunActive})

	_, err := srv.handleStart(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{
		"root_id": "root",
	})
	assert.ErrorIs(t, err, domain.ErrRunActive)
}

func TestControlHandlers(t *testing.T) {
	ctrl := &fakeController{}
	srv := NewServer(ctrl)

	_, err := srv.handlePause(context.Background(), mcp.CallToolRequest{}, nil)
	require.NoError(t, err)
	_, err = srv.handleCancel(context.Background(), mcp.CallToolRequest{}, nil)
	require.NoError(t, err)
	_, err = srv.handleSetSkipPreviews(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{
		"enabled": true,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, ctrl.paused)
	assert.Equal(t, 1, ctrl.canceled)
	assert.True(t, ctrl.skip)

	_, err = srv.handleSetSkipPreviews(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{
		"enabled": "yes",
	})
	assert.Error(t, err)
}

func TestHandleStatus(t *testing.T) {
	srv := NewServer(&fakeController{})

	resp, err := srv.handleStatus(context.Background(), mcp.CallToolRequest{}, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRunning, resp.Snapshot.Status)
}
