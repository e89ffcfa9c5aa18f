package library

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddResourceDefaults(t *testing.T) {
	lib, _, _ := newTestLibrary(t)

	id, err := lib.AddResource("Algebra I", "A. Smith", "Math", "English", "/tmp/math.pdf", "Core Subjects", "")
	require.NoError(t, err)
	assert.Len(t, id, 8)

	r, err := lib.Resource(id)
	require.NoError(t, err)
	assert.Equal(t, 0, r.DownloadCount)
	assert.Equal(t, 0, r.ViewCount)
	assert.False(t, r.AddedDate.IsZero())

	// every mutation rewrites the document
	_, err = os.Stat(lib.cfg.DataFile)
	assert.NoError(t, err)
}

func TestAddResourceAcceptsUnknownCategoryVerbatim(t *testing.T) {
	lib, _, _ := newTestLibrary(t)

	id, err := lib.AddResource("Odd One", "X", "Y", "Z", "/tmp/x", "Something Else", "")
	require.NoError(t, err)

	r, err := lib.Resource(id)
	require.NoError(t, err)
	assert.Equal(t, "Something Else", r.Category)
}

func TestEditResourceOverwritesOnlyProvidedFields(t *testing.T) {
	lib, _, _ := newTestLibrary(t)
	id := addResource(t, lib, "Algebra I")

	newTitle := "Algebra II"
	require.NoError(t, lib.EditResource(id, ResourceEdit{Title: &newTitle}))

	r, err := lib.Resource(id)
	require.NoError(t, err)
	assert.Equal(t, "Algebra II", r.Title)
	assert.Equal(t, "A. Author", r.Author)
	assert.Equal(t, "Math", r.Subject)
	assert.Equal(t, "Core Subjects", r.Category)
}

func TestEditResourceNotFound(t *testing.T) {
	lib, _, _ := newTestLibrary(t)

	title := "x"
	assert.ErrorIs(t, lib.EditResource("missing", ResourceEdit{Title: &title}), ErrNotFound)
}

func TestSearchMatchesAnyFieldCaseInsensitive(t *testing.T) {
	lib, _, _ := newTestLibrary(t)

	algebra, err := lib.AddResource("Algebra I", "A. Smith", "Math", "English", "/tmp/math.pdf", "Core Subjects", "")
	require.NoError(t, err)
	stories, err := lib.AddResource("Village Tales", "Mathilde Roy", "Folklore", "French", "/tmp/tales.pdf", "Local Storybooks", "")
	require.NoError(t, err)
	_, err = lib.AddResource("Exam Prep", "B. Jones", "Physics", "German", "/tmp/prep.pdf", "Exam Guides", "")
	require.NoError(t, err)

	// "math" hits Algebra I via subject and Village Tales via author (OR semantics)
	results := lib.Search("math")
	require.Len(t, results, 2)
	assert.Equal(t, algebra, results[0].ID)
	assert.Equal(t, stories, results[1].ID)

	upper := lib.Search("MATH")
	require.Len(t, upper, 2)
	assert.Equal(t, results[0].ID, upper[0].ID)
	assert.Equal(t, results[1].ID, upper[1].ID)

	assert.Len(t, lib.Search("french"), 1)
	assert.Empty(t, lib.Search("biology"))
}

func TestByCategoryCaseInsensitive(t *testing.T) {
	lib, _, _ := newTestLibrary(t)

	id := addResource(t, lib, "Algebra I")
	_, err := lib.AddResource("Tales", "R", "Folk", "English", "/tmp/t", "Local Storybooks", "")
	require.NoError(t, err)

	results := lib.ByCategory("core subjects")
	require.Len(t, results, 1)
	assert.Equal(t, id, results[0].ID)

	assert.Empty(t, lib.ByCategory("Nope"))
}

func TestResourcesPreserveCreationOrder(t *testing.T) {
	lib, _, _ := newTestLibrary(t)

	first := addResource(t, lib, "First")
	second := addResource(t, lib, "Second")
	third := addResource(t, lib, "Third")

	list := lib.Resources()
	require.Len(t, list, 3)
	assert.Equal(t, []string{first, second, third}, []string{list[0].ID, list[1].ID, list[2].ID})
}

func TestCategoriesListsKnownSet(t *testing.T) {
	got := Categories()
	assert.Equal(t, []string{"Core Subjects", "Local Storybooks", "Study Skills", "Exam Guides"}, got)

	// callers must not be able to mutate the shared set
	got[0] = "tampered"
	assert.Equal(t, "Core Subjects", Categories()[0])
}
