package catalog_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hritikarora28/AppstoreBackend/internal/catalog"
	"github.com/hritikarora28/AppstoreBackend/internal/models"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// a single connection keeps the in-memory database shared and serializes
	// writers, which sqlite requires anyway
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.App{}, &models.AppDownload{}, &models.Comment{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username, role string) catalog.Identity {
	t.Helper()
	u := models.User{Username: username, Email: username + "@test.local", Role: role}
	require.NoError(t, u.SetPassword("pw"))
	require.NoError(t, db.Create(&u).Error)
	return catalog.Identity{UserID: u.ID, Username: u.Username, Role: u.Role}
}

func newApp(name string, rating float64, visibility string) catalog.NewApp {
	return catalog.NewApp{
		Name:        name,
		Version:     1,
		Description: "d",
		Rating:      rating,
		Genre:       "tools",
		Visibility:  visibility,
	}
}

func TestCreateValidatesRequiredFields(t *testing.T) {
	db := testDB(t)
	s := catalog.NewStore(db)
	admin := seedUser(t, db, "admin", models.RoleAdmin)

	cases := []catalog.NewApp{
		{Version: 1, Description: "d", Genre: "tools"},
		{Name: "Foo", Description: "d", Genre: "tools"},
		{Name: "Foo", Version: 1, Genre: "tools"},
		{Name: "Foo", Version: 1, Description: "d"},
		{Name: "Foo", Version: 1, Description: "d", Genre: "tools", Visibility: "secret"},
	}
	for i, in := range cases {
		_, err := s.Create(admin, in)
		assert.Truef(t, catalog.IsValidation(err), "case %d: expected validation error, got %v", i, err)
	}

	rec, err := s.Create(admin, newApp("Foo", 0, ""))
	require.NoError(t, err)
	assert.Equal(t, models.VisibilityPublic, rec.Visibility)
	assert.Equal(t, admin.UserID, rec.Owner)
	assert.NotEmpty(t, rec.ID)
}

func TestPrivateAppsHiddenFromOthers(t *testing.T) {
	db := testDB(t)
	s := catalog.NewStore(db)
	owner := seedUser(t, db, "u1", models.RoleUser)
	other := seedUser(t, db, "u2", models.RoleUser)
	admin := seedUser(t, db, "admin", models.RoleAdmin)

	private, err := s.Create(owner, newApp("Secret", 0, models.VisibilityPrivate))
	require.NoError(t, err)
	_, err = s.Create(owner, newApp("Open", 0, models.VisibilityPublic))
	require.NoError(t, err)

	// List: non-owner regular user sees only the public app
	apps, err := s.List(other, catalog.Filter{})
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, "Open", apps[0].Name)

	// the owner and an admin both see it
	apps, err = s.List(owner, catalog.Filter{})
	require.NoError(t, err)
	assert.Len(t, apps, 2)
	apps, err = s.List(admin, catalog.Filter{})
	require.NoError(t, err)
	assert.Len(t, apps, 2)

	// GetByID: private app is Forbidden for non-owner, visible to owner/admin
	_, err = s.GetByID(other, private.ID)
	assert.ErrorIs(t, err, catalog.ErrForbidden)
	_, err = s.GetByID(owner, private.ID)
	assert.NoError(t, err)
	_, err = s.GetByID(admin, private.ID)
	assert.NoError(t, err)
}

func TestVisibilityFilterIntersectsPolicy(t *testing.T) {
	db := testDB(t)
	s := catalog.NewStore(db)
	owner := seedUser(t, db, "u1", models.RoleUser)
	other := seedUser(t, db, "u2", models.RoleUser)

	_, err := s.Create(owner, newApp("Mine", 0, models.VisibilityPrivate))
	require.NoError(t, err)
	_, err = s.Create(other, newApp("Theirs", 0, models.VisibilityPrivate))
	require.NoError(t, err)

	// filtering visibility=private still only exposes the caller's own app
	apps, err := s.List(owner, catalog.Filter{Visibility: models.VisibilityPrivate})
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, "Mine", apps[0].Name)

	_, err = s.List(owner, catalog.Filter{Visibility: "secret"})
	assert.True(t, catalog.IsValidation(err))
}

func TestListFilters(t *testing.T) {
	db := testDB(t)
	s := catalog.NewStore(db)
	admin := seedUser(t, db, "admin", models.RoleAdmin)

	names := []string{"Photo Editor", "photoshop", "Calculator"}
	for i, n := range names {
		in := newApp(n, float64(i+2), models.VisibilityPublic) // ratings 2, 3, 4
		if n == "Calculator" {
			in.Genre = "math"
		}
		_, err := s.Create(admin, in)
		require.NoError(t, err)
	}

	// case-insensitive substring on name
	apps, err := s.List(admin, catalog.Filter{Name: "PHOTO"})
	require.NoError(t, err)
	assert.Len(t, apps, 2)

	// exact genre
	apps, err = s.List(admin, catalog.Filter{Genre: "math"})
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, "Calculator", apps[0].Name)

	// inclusive rating range
	min, max, err := catalog.ParseRatingRange("3,4")
	require.NoError(t, err)
	apps, err = s.List(admin, catalog.Filter{RatingMin: min, RatingMax: max})
	require.NoError(t, err)
	assert.Len(t, apps, 2)
}

func TestParseRatingRange(t *testing.T) {
	min, max, err := catalog.ParseRatingRange("3,5")
	require.NoError(t, err)
	assert.Equal(t, 3.0, *min)
	assert.Equal(t, 5.0, *max)

	for _, bad := range []string{"3", "a,b", "5,3", "1,2,3", ""} {
		_, _, err := catalog.ParseRatingRange(bad)
		assert.Truef(t, catalog.IsValidation(err), "%q should not parse", bad)
	}
}

func TestDownloadCountRedaction(t *testing.T) {
	db := testDB(t)
	s := catalog.NewStore(db)
	admin := seedUser(t, db, "admin", models.RoleAdmin)
	owner := seedUser(t, db, "u1", models.RoleUser)
	user := seedUser(t, db, "u2", models.RoleUser)

	app, err := s.Create(owner, newApp("Foo", 0, models.VisibilityPublic))
	require.NoError(t, err)

	// owner is not automatically a downloader
	rec, err := s.GetByID(owner, app.ID)
	require.NoError(t, err)
	assert.Nil(t, rec.DownloadCount)

	// admin always sees the counter
	rec, err = s.GetByID(admin, app.ID)
	require.NoError(t, err)
	require.NotNil(t, rec.DownloadCount)
	assert.EqualValues(t, 0, *rec.DownloadCount)

	// a regular user sees it only after downloading
	rec, err = s.GetByID(user, app.ID)
	require.NoError(t, err)
	assert.Nil(t, rec.DownloadCount)

	_, err = s.Download(user, app.ID)
	require.NoError(t, err)

	rec, err = s.GetByID(user, app.ID)
	require.NoError(t, err)
	require.NotNil(t, rec.DownloadCount)
	assert.EqualValues(t, 1, *rec.DownloadCount)

	// same redaction applies to List
	apps, err := s.List(owner, catalog.Filter{})
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Nil(t, apps[0].DownloadCount)

	apps, err = s.List(user, catalog.Filter{})
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.NotNil(t, apps[0].DownloadCount)
}

func TestRepeatDownloadsCountEventsNotUsers(t *testing.T) {
	db := testDB(t)
	s := catalog.NewStore(db)
	user := seedUser(t, db, "u1", models.RoleUser)
	app, err := s.Create(user, newApp("Foo", 0, models.VisibilityPublic))
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := s.Download(user, app.ID)
		require.NoError(t, err)
	}

	count, err := s.DownloadCount(app.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	var downloaders int64
	require.NoError(t, db.Model(&models.AppDownload{}).Where("app_id = ?", app.ID).Count(&downloaders).Error)
	assert.EqualValues(t, 1, downloaders)
}

func TestConcurrentDownloads(t *testing.T) {
	db := testDB(t)
	s := catalog.NewStore(db)
	owner := seedUser(t, db, "owner", models.RoleUser)
	app, err := s.Create(owner, newApp("Foo", 0, models.VisibilityPublic))
	require.NoError(t, err)

	const callers = 8
	idents := make([]catalog.Identity, callers)
	for i := range idents {
		idents[i] = seedUser(t, db, fmt.Sprintf("dl%d", i), models.RoleUser)
	}

	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(ident catalog.Identity) {
			defer wg.Done()
			_, err := s.Download(ident, app.ID)
			errs <- err
		}(idents[i])
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	count, err := s.DownloadCount(app.ID)
	require.NoError(t, err)
	assert.EqualValues(t, callers, count)

	var downloaders int64
	require.NoError(t, db.Model(&models.AppDownload{}).Where("app_id = ?", app.ID).Count(&downloaders).Error)
	assert.EqualValues(t, callers, downloaders)
}

func TestUpdatesDoNotRewindDownloadCounter(t *testing.T) {
	db := testDB(t)
	s := catalog.NewStore(db)
	owner := seedUser(t, db, "owner", models.RoleAdmin)
	app, err := s.Create(owner, newApp("Foo", 0, models.VisibilityPublic))
	require.NoError(t, err)

	// downloads racing against partial updates on the same row: every
	// download event must survive, since Update writes only its own columns
	const downloads = 20
	idents := make([]catalog.Identity, downloads)
	for i := range idents {
		idents[i] = seedUser(t, db, fmt.Sprintf("dl%d", i), models.RoleUser)
	}

	var wg sync.WaitGroup
	errs := make(chan error, downloads*2)
	for i := 0; i < downloads; i++ {
		wg.Add(1)
		go func(ident catalog.Identity) {
			defer wg.Done()
			_, err := s.Download(ident, app.ID)
			errs <- err
		}(idents[i])
		wg.Add(1)
		go func(r float64) {
			defer wg.Done()
			_, err := s.Update(owner, app.ID, catalog.UpdateFields{Rating: &r})
			errs <- err
		}(float64(i))
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	count, err := s.DownloadCount(app.ID)
	require.NoError(t, err)
	assert.EqualValues(t, downloads, count)

	var downloaders int64
	require.NoError(t, db.Model(&models.AppDownload{}).Where("app_id = ?", app.ID).Count(&downloaders).Error)
	assert.EqualValues(t, downloads, downloaders)

	rec, err := s.GetByID(owner, app.ID)
	require.NoError(t, err)
	assert.Equal(t, owner.UserID, rec.Owner)
}

func TestDownloadMissingApp(t *testing.T) {
	db := testDB(t)
	s := catalog.NewStore(db)
	user := seedUser(t, db, "u1", models.RoleUser)

	_, err := s.Download(user, "no-such-app")
	assert.ErrorIs(t, err, catalog.ErrNotFound)
	_, err = s.DownloadCount("no-such-app")
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestUpdateOwnershipAndFields(t *testing.T) {
	db := testDB(t)
	s := catalog.NewStore(db)
	owner := seedUser(t, db, "u1", models.RoleAdmin)
	otherAdmin := seedUser(t, db, "u2", models.RoleAdmin)

	app, err := s.Create(owner, newApp("Foo", 2, models.VisibilityPublic))
	require.NoError(t, err)

	// even another admin cannot update an app they do not own
	name := "Bar"
	_, err = s.Update(otherAdmin, app.ID, catalog.UpdateFields{Name: &name})
	assert.ErrorIs(t, err, catalog.ErrForbidden)

	rating := 4.5
	vis := models.VisibilityPrivate
	rec, err := s.Update(owner, app.ID, catalog.UpdateFields{Name: &name, Rating: &rating, Visibility: &vis})
	require.NoError(t, err)
	assert.Equal(t, "Bar", rec.Name)
	assert.Equal(t, 4.5, rec.Rating)
	assert.Equal(t, models.VisibilityPrivate, rec.Visibility)
	assert.Equal(t, owner.UserID, rec.Owner)

	// untouched fields survive a partial update
	assert.Equal(t, 1.0, rec.Version)
	assert.Equal(t, "d", rec.Description)

	_, err = s.Update(owner, "no-such-app", catalog.UpdateFields{Name: &name})
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	bad := "secret"
	_, err = s.Update(owner, app.ID, catalog.UpdateFields{Visibility: &bad})
	assert.True(t, catalog.IsValidation(err))
}

func TestDeleteSemantics(t *testing.T) {
	db := testDB(t)
	s := catalog.NewStore(db)
	owner := seedUser(t, db, "u1", models.RoleAdmin)
	other := seedUser(t, db, "u2", models.RoleAdmin)

	app, err := s.Create(owner, newApp("Foo", 0, models.VisibilityPublic))
	require.NoError(t, err)

	assert.ErrorIs(t, s.Delete(other, app.ID), catalog.ErrForbidden)
	require.NoError(t, s.Delete(owner, app.ID))

	// gone for good: a second delete and a get both report NotFound
	assert.ErrorIs(t, s.Delete(owner, app.ID), catalog.ErrNotFound)
	_, err = s.GetByID(owner, app.ID)
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestComments(t *testing.T) {
	db := testDB(t)
	s := catalog.NewStore(db)
	owner := seedUser(t, db, "u1", models.RoleAdmin)
	alice := seedUser(t, db, "alice", models.RoleUser)
	bob := seedUser(t, db, "bob", models.RoleUser)

	app, err := s.Create(owner, newApp("Foo", 0, models.VisibilityPublic))
	require.NoError(t, err)

	// comments on a missing app are rejected
	_, err = s.AddComment(alice, "no-such-app", "nice")
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	_, err = s.AddComment(alice, app.ID, "")
	assert.True(t, catalog.IsValidation(err))

	c1, err := s.AddComment(alice, app.ID, "nice app")
	require.NoError(t, err)
	assert.Equal(t, "alice", c1.Username)
	assert.Equal(t, app.ID, c1.App)

	_, err = s.AddComment(bob, app.ID, "meh")
	require.NoError(t, err)

	comments, err := s.ListComments(app.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	usernames := []string{comments[0].Username, comments[1].Username}
	assert.ElementsMatch(t, []string{"alice", "bob"}, usernames)
}
