package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTextJob(t *testing.T) {
	t.Parallel()

	t.Run("valid text job", func(t *testing.T) {
		t.Parallel()

		job, err := NewTextJob("buy milk tomorrow")
		require.NoError(t, err)
		assert.Equal(t, JobKindText, job.Kind)
		assert.Equal(t, JobStatusQueued, job.Status)
		assert.Equal(t, "buy milk tomorrow", job.RawText)
		assert.False(t, job.CreatedAt.IsZero())
		assert.Nil(t, job.Result)
		assert.Empty(t, job.Error)
	})

	t.Run("empty text rejected", func(t *testing.T) {
		t.Parallel()

		_, err := NewTextJob("")
		assert.ErrorIs(t, err, ErrEmptyJobText)
	})
}

func TestNewAudioJob(t *testing.T) {
	t.Parallel()

	t.Run("valid audio job", func(t *testing.T) {
		t.Parallel()

		job, err := NewAudioJob("uploads/note.wav")
		require.NoError(t, err)
		assert.Equal(t, JobKindAudio, job.Kind)
		assert.Equal(t, JobStatusQueued, job.Status)
	})

	t.Run("empty audio path rejected", func(t *testing.T) {
		t.Parallel()

		_, err := NewAudioJob("")
		assert.ErrorIs(t, err, ErrEmptyJobAudioPath)
	})
}

func TestJobLifecycle(t *testing.T) {
	t.Parallel()

	t.Run("queued to processing to done", func(t *testing.T) {
		t.Parallel()

		job, err := NewTextJob("call Alice")
		require.NoError(t, err)

		require.NoError(t, job.StartProcessing())
		assert.Equal(t, JobStatusProcessing, job.Status)

		item, err := NewActionItem("call Alice", nil, "")
		require.NoError(t, err)

		require.NoError(t, job.Complete([]ActionItem{item}))
		assert.Equal(t, JobStatusDone, job.Status)
		require.NotNil(t, job.Result)
		assert.Len(t, job.Result.Items, 1)
		assert.Empty(t, job.Error)
		assert.True(t, job.IsTerminal())
	})

	t.Run("queued to processing to failed", func(t *testing.T) {
		t.Parallel()

		job, err := NewTextJob("call Alice")
		require.NoError(t, err)

		require.NoError(t, job.StartProcessing())
		require.NoError(t, job.Fail("extraction exploded"))
		assert.Equal(t, JobStatusFailed, job.Status)
		assert.Equal(t, "extraction exploded", job.Error)
		assert.Nil(t, job.Result)
		assert.True(t, job.IsTerminal())
	})

	t.Run("cannot skip processing", func(t *testing.T) {
		t.Parallel()

		job, err := NewTextJob("call Alice")
		require.NoError(t, err)

		assert.ErrorIs(t, job.Complete(nil), ErrInvalidTransition)
		assert.ErrorIs(t, job.Fail("nope"), ErrInvalidTransition)
	})

	t.Run("processing entered only once", func(t *testing.T) {
		t.Parallel()

		job, err := NewTextJob("call Alice")
		require.NoError(t, err)

		require.NoError(t, job.StartProcessing())
		assert.ErrorIs(t, job.StartProcessing(), ErrInvalidTransition)

		require.NoError(t, job.Complete(nil))
		assert.ErrorIs(t, job.StartProcessing(), ErrInvalidTransition)
	})

	t.Run("terminal states are final", func(t *testing.T) {
		t.Parallel()

		job, err := NewTextJob("call Alice")
		require.NoError(t, err)

		require.NoError(t, job.StartProcessing())
		require.NoError(t, job.Fail("boom"))
		assert.ErrorIs(t, job.Complete(nil), ErrInvalidTransition)
	})
}

func TestNewActionItem(t *testing.T) {
	t.Parallel()

	t.Run("defaults priority to medium", func(t *testing.T) {
		t.Parallel()

		item, err := NewActionItem("buy milk", nil, "")
		require.NoError(t, err)
		assert.Equal(t, PriorityMedium, item.Priority)
		assert.Equal(t, ItemStatusPending, item.Status)
		assert.Nil(t, item.DueAt)
	})

	t.Run("keeps explicit priority and due time", func(t *testing.T) {
		t.Parallel()

		due := time.Now().Add(time.Hour).UTC()
		item, err := NewActionItem("submit report", &due, PriorityHigh)
		require.NoError(t, err)
		assert.Equal(t, PriorityHigh, item.Priority)
		require.NotNil(t, item.DueAt)
		assert.True(t, item.DueAt.Equal(due))
	})

	t.Run("empty description rejected", func(t *testing.T) {
		t.Parallel()

		_, err := NewActionItem("", nil, PriorityLow)
		assert.ErrorIs(t, err, ErrEmptyItemDescription)
	})

	t.Run("unknown priority rejected", func(t *testing.T) {
		t.Parallel()

		_, err := NewActionItem("buy milk", nil, Priority("urgent"))
		assert.ErrorIs(t, err, ErrInvalidPriority)
	})
}
