package storage

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smearn/internal/models"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	store, err := NewSQLiteStorage("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.Seed(SeedCatalog()))
	return store
}

func TestSeedCatalog_EverySubjectCovered(t *testing.T) {
	cat := SeedCatalog()
	for _, s := range models.Subjects {
		assert.NotEmpty(t, cat.Questions[s], s)
		assert.NotEmpty(t, cat.Flashcards[s], s)
		assert.NotEmpty(t, cat.Videos[s], s)
		assert.NotEmpty(t, cat.Textbooks[s], s)
		for _, q := range cat.Questions[s] {
			assert.Len(t, q.Options, models.OptionCount, q.Text)
			assert.Contains(t, q.Options, q.Answer, q.Text)
		}
	}
}

func TestSQLiteStorage_ListQuestions_KeepsOrder(t *testing.T) {
	store := newTestStorage(t)

	qs, err := store.ListQuestions(models.SubjectMathematics)
	require.NoError(t, err)
	require.Len(t, qs, 3)
	assert.Equal(t, int64(1), qs[0].ID)
	assert.Equal(t, int64(3), qs[2].ID)
	assert.Equal(t, []string{"5", "10", "7.5", "2"}, qs[0].Options)
	assert.Equal(t, models.SubjectMathematics, qs[0].Subject)
}

func TestSQLiteStorage_GetQuestion(t *testing.T) {
	store := newTestStorage(t)

	q, err := store.GetQuestion(201)
	require.NoError(t, err)
	assert.Equal(t, "Newton", q.Answer)

	_, err = store.GetQuestion(999999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStorage_AppendQuestions(t *testing.T) {
	store := newTestStorage(t)
	now := time.UnixMilli(1_700_000_000_000)

	stored, err := store.AppendQuestions(models.SubjectPhysics, []models.Question{
		{Text: "Q1", Options: []string{"a", "b", "c", "d"}, Answer: "b"},
		{Text: "Q2", Options: []string{"a", "b", "c", "d"}, Answer: "c"},
	}, now)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, now.UnixMilli(), stored[0].ID)
	assert.Equal(t, now.UnixMilli()+1, stored[1].ID)

	qs, err := store.ListQuestions(models.SubjectPhysics)
	require.NoError(t, err)
	require.Len(t, qs, 4)
	assert.Equal(t, "Q1", qs[2].Text)
	assert.Equal(t, "Q2", qs[3].Text)
}

func TestSQLiteStorage_AppendQuestions_SameInstantNeverCollides(t *testing.T) {
	store := newTestStorage(t)
	now := time.UnixMilli(1_700_000_000_000)
	batch := []models.Question{
		{Text: "A", Options: []string{"a", "b", "c", "d"}, Answer: "a"},
		{Text: "B", Options: []string{"a", "b", "c", "d"}, Answer: "b"},
	}

	first, err := store.AppendQuestions(models.SubjectBiology, batch, now)
	require.NoError(t, err)
	second, err := store.AppendQuestions(models.SubjectBiology, batch, now)
	require.NoError(t, err)

	assert.Equal(t, first[1].ID+1, second[0].ID)

	got, err := store.GetQuestion(second[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "B", got.Text)
	assert.Equal(t, models.SubjectBiology, got.Subject)
}

func TestSQLiteStorage_AppendQuestions_Concurrent(t *testing.T) {
	store := newTestStorage(t)
	now := time.Now()

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.AppendQuestions(models.SubjectEconomics, []models.Question{
				{Text: "Q", Options: []string{"a", "b", "c", "d"}, Answer: "a"},
			}, now)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	qs, err := store.ListQuestions(models.SubjectEconomics)
	require.NoError(t, err)
	assert.Len(t, qs, 7)
}

func TestSQLiteStorage_AppendQuestions_Empty(t *testing.T) {
	store := newTestStorage(t)

	stored, err := store.AppendQuestions(models.SubjectCRS, nil, time.Now())
	require.NoError(t, err)
	assert.Empty(t, stored)

	qs, err := store.ListQuestions(models.SubjectCRS)
	require.NoError(t, err)
	assert.Len(t, qs, 2)
}

func TestSQLiteStorage_Flashcards(t *testing.T) {
	store := newTestStorage(t)

	cards, err := store.ListFlashcards(models.SubjectMathematics)
	require.NoError(t, err)
	require.Len(t, cards, 3)
	assert.Equal(t, "πr²", cards[0].Answer)
	assert.Equal(t, models.SubjectMathematics, cards[0].Subject)
}

func TestSQLiteStorage_Videos(t *testing.T) {
	store := newTestStorage(t)

	videos, err := store.ListVideos(models.SubjectMathematics)
	require.NoError(t, err)
	require.Len(t, videos, 2)
	assert.Equal(t, "Solving Linear Equations", videos[0].Title)
}

func TestSQLiteStorage_Textbooks(t *testing.T) {
	store := newTestStorage(t)

	books, err := store.ListTextbooks(models.SubjectChemistry)
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.False(t, books[0].IsPremium)
	assert.True(t, books[1].IsPremium)

	b, err := store.GetTextbook(books[1].ID)
	require.NoError(t, err)
	assert.Equal(t, books[1].Title, b.Title)
	assert.Equal(t, models.SubjectChemistry, b.Subject)

	_, err = store.GetTextbook(-1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStorage_UnknownSubjectIsEmpty(t *testing.T) {
	store := newTestStorage(t)

	qs, err := store.ListQuestions(models.Subject("Art"))
	require.NoError(t, err)
	assert.Empty(t, qs)
}
