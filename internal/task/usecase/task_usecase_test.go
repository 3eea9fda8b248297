package usecase

import (
	"errors"
	"testing"
	"time"

	"taskpilot-backend/internal/task/domain"
	"taskpilot-backend/internal/task/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUser = "user-1"

func newUsecase() TaskUsecase {
	return NewTaskUsecase(repository.NewMemoryTaskStore())
}

func strPtr(s string) *string { return &s }

func TestAddThenGet_RoundTrip(t *testing.T) {
	uc := newUsecase()

	created, err := uc.Add(testUser, CreateTaskRequest{
		Title:       "  Buy milk  ",
		Description: "two liters",
		Priority:    "high",
		Tags:        []string{"errands", " shopping "},
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := uc.Get(testUser, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "Buy milk", got.Title)
	assert.Equal(t, "two liters", got.Description)
	assert.Equal(t, domain.TaskStatusPending, got.Status)
	assert.Equal(t, domain.PriorityHigh, got.Priority)
	assert.Equal(t, []string{"errands", "shopping"}, got.Tags)
	assert.False(t, got.ReminderNotified)
	assert.False(t, got.UpdatedAt.Before(got.CreatedAt))
}

func TestAdd_Defaults(t *testing.T) {
	uc := newUsecase()

	created, err := uc.Add(testUser, CreateTaskRequest{Title: "plain"})
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusPending, created.Status)
	assert.Equal(t, domain.PriorityMedium, created.Priority)
	assert.Equal(t, []string{}, created.Tags)
}

func TestAdd_InvalidInputRejected(t *testing.T) {
	uc := newUsecase()

	_, err := uc.Add(testUser, CreateTaskRequest{
		Title:   "   ",
		DueDate: strPtr("not-a-date"),
		DueTime: "25:99",
	})
	require.Error(t, err)
	assert.True(t, domain.IsValidationError(err))

	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	// every violated rule collected in one error
	assert.Len(t, ve.Reasons, 3)

	// nothing was persisted
	tasks, err := uc.List(testUser, FilterCriteria{})
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestGet_AbsentReturnsNilWithoutError(t *testing.T) {
	uc := newUsecase()
	got, err := uc.Get(testUser, "nope")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestUpdate_PreservesIDAndCreatedAt(t *testing.T) {
	uc := newUsecase()
	created, err := uc.Add(testUser, CreateTaskRequest{Title: "original"})
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	updated, err := uc.Update(testUser, created.ID, UpdateTaskRequest{
		Title: strPtr("renamed"),
	})
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
	assert.Equal(t, "renamed", updated.Title)
}

func TestUpdate_InvalidMergeLeavesOriginalUntouched(t *testing.T) {
	uc := newUsecase()
	created, err := uc.Add(testUser, CreateTaskRequest{Title: "keep me"})
	require.NoError(t, err)

	_, err = uc.Update(testUser, created.ID, UpdateTaskRequest{Title: strPtr("")})
	require.Error(t, err)
	assert.True(t, domain.IsValidationError(err))

	got, err := uc.Get(testUser, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "keep me", got.Title)
	assert.True(t, got.UpdatedAt.Equal(created.UpdatedAt))
}

func TestUpdate_AbsentID(t *testing.T) {
	uc := newUsecase()
	_, err := uc.Update(testUser, "missing", UpdateTaskRequest{Title: strPtr("x")})
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestUpdate_ReminderChangeResetsNotified(t *testing.T) {
	uc := newUsecase()
	created, err := uc.Add(testUser, CreateTaskRequest{
		Title:           "with reminder",
		ReminderEnabled: true,
		ReminderAt:      strPtr(time.Now().Add(time.Hour).Format(time.RFC3339)),
	})
	require.NoError(t, err)

	// simulate the scheduler having fired
	enabled := true
	fired, err := uc.Update(testUser, created.ID, UpdateTaskRequest{ReminderEnabled: &enabled})
	require.NoError(t, err)
	assert.False(t, fired.ReminderNotified) // untouched reminder time keeps the flag

	// force-set notified through the store path: mark by changing nothing
	// except the flag is owned by the scheduler, so emulate with a direct
	// reminder change after a manual mark
	store := repository.NewMemoryTaskStore()
	uc2 := NewTaskUsecase(store)
	created2, err := uc2.Add(testUser, CreateTaskRequest{
		Title:           "fired already",
		ReminderEnabled: true,
		ReminderAt:      strPtr(time.Now().Add(time.Hour).Format(time.RFC3339)),
	})
	require.NoError(t, err)
	require.NoError(t, store.Mutate(testUser, func(tasks []domain.Task) ([]domain.Task, error) {
		tasks[0].ReminderNotified = true
		return tasks, nil
	}))

	newAt := time.Now().Add(2 * time.Hour).Format(time.RFC3339)
	updated, err := uc2.Update(testUser, created2.ID, UpdateTaskRequest{ReminderAt: strPtr(newAt)})
	require.NoError(t, err)
	assert.False(t, updated.ReminderNotified, "changing reminder time must re-arm the task")
}

func TestUpdate_SameReminderKeepsNotified(t *testing.T) {
	store := repository.NewMemoryTaskStore()
	uc := NewTaskUsecase(store)

	at := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	created, err := uc.Add(testUser, CreateTaskRequest{
		Title:           "unchanged reminder",
		ReminderEnabled: true,
		ReminderAt:      strPtr(at.Format(time.RFC3339)),
	})
	require.NoError(t, err)
	require.NoError(t, store.Mutate(testUser, func(tasks []domain.Task) ([]domain.Task, error) {
		tasks[0].ReminderNotified = true
		return tasks, nil
	}))

	updated, err := uc.Update(testUser, created.ID, UpdateTaskRequest{
		ReminderAt: strPtr(at.Format(time.RFC3339)),
	})
	require.NoError(t, err)
	assert.True(t, updated.ReminderNotified, "identical reminder time must not re-arm")
}

func TestDelete(t *testing.T) {
	uc := newUsecase()
	created, err := uc.Add(testUser, CreateTaskRequest{Title: "doomed"})
	require.NoError(t, err)

	require.NoError(t, uc.Delete(testUser, created.ID))

	got, err := uc.Get(testUser, created.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	err = uc.Delete(testUser, created.ID)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestList_FilterByStatus(t *testing.T) {
	uc := newUsecase()
	seedCollection(t, uc)

	tasks, err := uc.List(testUser, FilterCriteria{Status: "pending"})
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	// collection order preserved
	assert.Equal(t, "Buy milk", tasks[0].Title)
	assert.Equal(t, "Pay bills", tasks[1].Title)
}

func TestList_FilterByDueDateAndTag(t *testing.T) {
	uc := newUsecase()
	seedCollection(t, uc)

	tasks, err := uc.List(testUser, FilterCriteria{DueDate: "2024-01-15"})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Pay bills", tasks[0].Title)

	// tag match is case-insensitive
	tasks, err = uc.List(testUser, FilterCriteria{Tag: "ERRANDS"})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Buy milk", tasks[0].Title)
}

func TestList_CombinedCriteriaNarrow(t *testing.T) {
	uc := newUsecase()
	seedCollection(t, uc)

	tasks, err := uc.List(testUser, FilterCriteria{Status: "pending", Priority: "high"})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Pay bills", tasks[0].Title)
}

func TestList_BadDueDateFilter(t *testing.T) {
	uc := newUsecase()
	seedCollection(t, uc)

	_, err := uc.List(testUser, FilterCriteria{DueDate: "15/01/2024"})
	assert.True(t, domain.IsValidationError(err))
}

func TestSearch(t *testing.T) {
	uc := newUsecase()
	seedCollection(t, uc)

	// blank query returns everything unfiltered
	all, err := uc.Search(testUser, "   ")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	// matches title, description, and tags, case-insensitively
	hits, err := uc.Search(testUser, "MILK")
	require.NoError(t, err)
	require.Len(t, hits, 3)
}

func TestSearch_NoHits(t *testing.T) {
	uc := newUsecase()
	seedCollection(t, uc)

	hits, err := uc.Search(testUser, "zebra")
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestStats_Scenario(t *testing.T) {
	uc := newUsecase()

	created, err := uc.Add(testUser, CreateTaskRequest{
		Title:    "Pay bills",
		Priority: "high",
		DueDate:  strPtr("2024-01-15"),
	})
	require.NoError(t, err)

	stats, err := uc.Stats(testUser)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 1, stats.Pending)
	assert.Equal(t, 1, stats.HighPriority)

	_, err = uc.Update(testUser, created.ID, UpdateTaskRequest{Status: strPtr("completed")})
	require.NoError(t, err)

	stats, err = uc.Stats(testUser)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Pending)
	assert.Equal(t, 1, stats.Completed)
}

func TestSuggestions(t *testing.T) {
	uc := newUsecase()
	seedCollection(t, uc)

	suggestions, err := uc.Suggestions(testUser, "milk", 5)
	require.NoError(t, err)
	require.NotEmpty(t, suggestions)
	assert.Equal(t, "Buy milk", suggestions[0])

	none, err := uc.Suggestions(testUser, "", 5)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestUsersAreIsolated(t *testing.T) {
	uc := newUsecase()
	_, err := uc.Add("alice", CreateTaskRequest{Title: "alice task"})
	require.NoError(t, err)

	tasks, err := uc.List("bob", FilterCriteria{})
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

// seedCollection adds three tasks: "Buy milk" (pending, medium, tagged),
// "Pay bills" (pending, high, due 2024-01-15, description mentions milk
// money), and a completed task tagged "milk".
func seedCollection(t *testing.T, uc TaskUsecase) {
	t.Helper()

	_, err := uc.Add(testUser, CreateTaskRequest{
		Title: "Buy milk",
		Tags:  []string{"errands"},
	})
	require.NoError(t, err)

	_, err = uc.Add(testUser, CreateTaskRequest{
		Title:       "Pay bills",
		Description: "includes the milk money",
		Priority:    "high",
		DueDate:     strPtr("2024-01-15"),
	})
	require.NoError(t, err)

	_, err = uc.Add(testUser, CreateTaskRequest{
		Title:  "Clean fridge",
		Status: "completed",
		Tags:   []string{"Milk", "kitchen"},
	})
	require.NoError(t, err)
}
