package reconcile

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"campusdesk/internal/application/issue/dto"
	"campusdesk/internal/application/issue/usecases"
)

type stubReconciler struct {
	got    usecases.ReconcileCountersCommand
	result *usecases.ReconcileCountersResult
}

func (s *stubReconciler) Execute(_ context.Context, cmd usecases.ReconcileCountersCommand) (*usecases.ReconcileCountersResult, error) {
	s.got = cmd
	return s.result, nil
}

func sampleResult() *usecases.ReconcileCountersResult {
	return &usecases.ReconcileCountersResult{
		Checked: 2,
		Drifted: 1,
		Reports: []*dto.CounterReport{
			{IssueID: 4, UpvotesBefore: 3, UpvotesAfter: 2, CommentsBefore: 1, CommentsAfter: 1, Drifted: true},
		},
	}
}

func TestExecute_SingleIssue(t *testing.T) {
	stub := &stubReconciler{result: sampleResult()}

	_, err := execute(context.Background(), stub, 4, true)

	require.NoError(t, err)
	require.NotNil(t, stub.got.IssueID)
	assert.Equal(t, uint(4), *stub.got.IssueID)
	assert.True(t, stub.got.OnlyDrifted)
}

func TestExecute_AllIssues(t *testing.T) {
	stub := &stubReconciler{result: sampleResult()}

	_, err := execute(context.Background(), stub, 0, false)

	require.NoError(t, err)
	assert.Nil(t, stub.got.IssueID)
}

func TestRender_Text(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, render(&buf, sampleResult(), "text"))

	out := buf.String()
	assert.Contains(t, out, "checked 2 issue(s), 1 drifted")
	assert.Contains(t, out, "3 -> 2")
}

func TestRender_YAML(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, render(&buf, sampleResult(), "yaml"))

	var decoded usecases.ReconcileCountersResult
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 2, decoded.Checked)
	require.Len(t, decoded.Reports, 1)
	assert.Equal(t, uint(4), decoded.Reports[0].IssueID)
	assert.Equal(t, 2, decoded.Reports[0].UpvotesAfter)
}
