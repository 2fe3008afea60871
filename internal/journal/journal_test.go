package journal

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/scrapework/harvester/internal/crawl"
)

type fixedClock struct {
	at time.Time
}

func (c fixedClock) Now() time.Time { return c.at }

func openTestJournal(t *testing.T, runID string) *Journal {
	t.Helper()
	path := filepath.Join(t.TempDir(), "journal.db")
	j, err := Open(path, runID, fixedClock{at: time.Date(2019, 3, 4, 5, 6, 7, 0, time.UTC)}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func TestJournalRecordsOutcomes(t *testing.T) {
	j := openTestJournal(t, "run-1")
	ctx := context.Background()

	require.NoError(t, j.StartRun(ctx, "advisors"))

	j.TaskResolved(crawl.TaskOutcome{
		Task:     crawl.Task{Stage: "directory", Target: "https://example.com/index.asp"},
		State:    crawl.StateSucceeded,
		Attempts: 1,
	})
	j.TaskResolved(crawl.TaskOutcome{
		Task:     crawl.Task{Stage: "directory", Target: "https://example.com/other.asp"},
		State:    crawl.StateFailed,
		Attempts: 3,
		Err:      errors.New("fetch https://example.com/other.asp: status 503"),
	})
	j.TaskResolved(crawl.TaskOutcome{
		Task:     crawl.Task{Stage: "city-listings", Target: "https://example.com/city.asp"},
		State:    crawl.StateSucceeded,
		Attempts: 1,
	})

	outcomes, err := j.Outcomes(ctx, "directory")
	require.NoError(t, err)
	require.Len(t, outcomes, 2)

	require.Equal(t, "https://example.com/index.asp", outcomes[0].Target)
	require.Equal(t, string(crawl.StateSucceeded), outcomes[0].Status)
	require.Equal(t, 1, outcomes[0].Attempts)
	require.Empty(t, outcomes[0].ErrorText)

	require.Equal(t, "https://example.com/other.asp", outcomes[1].Target)
	require.Equal(t, string(crawl.StateFailed), outcomes[1].Status)
	require.Equal(t, 3, outcomes[1].Attempts)
	require.Contains(t, outcomes[1].ErrorText, "503")

	require.NoError(t, j.FinishRun(ctx, "succeeded", 12))
}

func TestJournalOutcomesScopedToRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	clk := fixedClock{at: time.Now().UTC()}

	first, err := Open(path, "run-1", clk, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, first.StartRun(context.Background(), "advisors"))
	first.TaskResolved(crawl.TaskOutcome{
		Task:     crawl.Task{Stage: "directory", Target: "https://example.com/a"},
		State:    crawl.StateSucceeded,
		Attempts: 1,
	})
	require.NoError(t, first.Close())

	second, err := Open(path, "run-2", clk, zap.NewNop())
	require.NoError(t, err)
	defer second.Close()
	require.NoError(t, second.StartRun(context.Background(), "advisors"))

	outcomes, err := second.Outcomes(context.Background(), "directory")
	require.NoError(t, err)
	require.Empty(t, outcomes)
}

func TestJournalEmptyStage(t *testing.T) {
	j := openTestJournal(t, "run-1")
	require.NoError(t, j.StartRun(context.Background(), "bestsellers"))

	outcomes, err := j.Outcomes(context.Background(), "weekly-lists")
	require.NoError(t, err)
	require.Empty(t, outcomes)
}
