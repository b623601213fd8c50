// Package catalog holds the access-control and query-shaping logic for the
// app catalog: who may see which records, and which fields of them.
package catalog

import (
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hritikarora28/AppstoreBackend/internal/models"
)

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// AppRecord is the caller-facing shape of an app. DownloadCount is nil when
// the caller is not entitled to see it; the JSON key is then omitted.
type AppRecord struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Version       float64    `json:"version"`
	Description   string     `json:"description"`
	Rating        float64    `json:"rating"`
	ReleaseDate   *time.Time `json:"releasedate,omitempty"`
	Genre         string     `json:"genre"`
	Visibility    string     `json:"visibility"`
	Owner         uint       `json:"owner"`
	DownloadCount *int64     `json:"downloadCount,omitempty"`
}

// record shapes an app for the given caller. The counter is visible to
// admins and to users who have downloaded this app; everyone else gets nil.
func record(app *models.App, caller Identity, downloaded bool) AppRecord {
	r := AppRecord{
		ID:          app.ID,
		Name:        app.Name,
		Version:     app.Version,
		Description: app.Description,
		Rating:      app.Rating,
		ReleaseDate: app.ReleaseDate,
		Genre:       app.Genre,
		Visibility:  app.Visibility,
		Owner:       app.OwnerID,
	}
	if caller.IsAdmin() || downloaded {
		n := app.DownloadCount
		r.DownloadCount = &n
	}
	return r
}

type NewApp struct {
	Name        string     `json:"name"`
	Version     float64    `json:"version"`
	Description string     `json:"description"`
	Rating      float64    `json:"rating"`
	ReleaseDate *time.Time `json:"releasedate"`
	Genre       string     `json:"genre"`
	Visibility  string     `json:"visibility"`
}

func (s *Store) Create(caller Identity, in NewApp) (*AppRecord, error) {
	if in.Name == "" {
		return nil, invalidf("name required")
	}
	if in.Version <= 0 {
		return nil, invalidf("version required")
	}
	if in.Description == "" {
		return nil, invalidf("description required")
	}
	if in.Genre == "" {
		return nil, invalidf("genre required")
	}
	if in.Visibility == "" {
		in.Visibility = models.VisibilityPublic
	}
	if in.Visibility != models.VisibilityPublic && in.Visibility != models.VisibilityPrivate {
		return nil, invalidf("unknown visibility %q", in.Visibility)
	}
	app := models.App{
		Name:        in.Name,
		Version:     in.Version,
		Description: in.Description,
		Rating:      in.Rating,
		ReleaseDate: in.ReleaseDate,
		Genre:       in.Genre,
		Visibility:  in.Visibility,
		OwnerID:     caller.UserID,
	}
	if err := s.db.Create(&app).Error; err != nil {
		return nil, errors.Wrap(err, "create app")
	}
	rec := record(&app, caller, false)
	return &rec, nil
}

func (s *Store) List(caller Identity, f Filter) ([]AppRecord, error) {
	tx := s.db.Model(&models.App{})
	if !caller.IsAdmin() {
		tx = tx.Where("visibility = ? OR owner_id = ?", models.VisibilityPublic, caller.UserID)
	}
	tx, err := f.apply(tx)
	if err != nil {
		return nil, err
	}
	var apps []models.App
	if err := tx.Find(&apps).Error; err != nil {
		return nil, errors.Wrap(err, "list apps")
	}
	downloaded, err := s.downloadedSet(caller, apps)
	if err != nil {
		return nil, err
	}
	out := make([]AppRecord, 0, len(apps))
	for i := range apps {
		out = append(out, record(&apps[i], caller, downloaded[apps[i].ID]))
	}
	return out, nil
}

func (s *Store) GetByID(caller Identity, appID string) (*AppRecord, error) {
	app, err := s.load(appID)
	if err != nil {
		return nil, err
	}
	if app.Visibility == models.VisibilityPrivate && !caller.IsAdmin() && app.OwnerID != caller.UserID {
		return nil, ErrForbidden
	}
	downloaded, err := s.hasDownloaded(caller.UserID, appID)
	if err != nil {
		return nil, err
	}
	rec := record(app, caller, downloaded)
	return &rec, nil
}

// UpdateFields is the allow-list of mutable app fields. Owner, identifier
// and the download counters are deliberately not representable here.
type UpdateFields struct {
	Name        *string    `json:"name"`
	Version     *float64   `json:"version"`
	Description *string    `json:"description"`
	Rating      *float64   `json:"rating"`
	ReleaseDate *time.Time `json:"releasedate"`
	Genre       *string    `json:"genre"`
	Visibility  *string    `json:"visibility"`
}

func (s *Store) Update(caller Identity, appID string, in UpdateFields) (*AppRecord, error) {
	app, err := s.load(appID)
	if err != nil {
		return nil, err
	}
	if app.OwnerID != caller.UserID {
		return nil, ErrForbidden
	}
	updates := map[string]interface{}{}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, invalidf("name cannot be empty")
		}
		updates["name"] = *in.Name
	}
	if in.Version != nil {
		if *in.Version <= 0 {
			return nil, invalidf("invalid version")
		}
		updates["version"] = *in.Version
	}
	if in.Description != nil {
		if *in.Description == "" {
			return nil, invalidf("description cannot be empty")
		}
		updates["description"] = *in.Description
	}
	if in.Rating != nil {
		updates["rating"] = *in.Rating
	}
	if in.ReleaseDate != nil {
		updates["release_date"] = *in.ReleaseDate
	}
	if in.Genre != nil {
		if *in.Genre == "" {
			return nil, invalidf("genre cannot be empty")
		}
		updates["genre"] = *in.Genre
	}
	if in.Visibility != nil {
		if *in.Visibility != models.VisibilityPublic && *in.Visibility != models.VisibilityPrivate {
			return nil, invalidf("unknown visibility %q", *in.Visibility)
		}
		updates["visibility"] = *in.Visibility
	}
	// Only the allow-listed columns are written. A full-row save here could
	// rewind download_count written by a concurrent Download.
	if len(updates) > 0 {
		err := s.db.Model(&models.App{}).Where("id = ?", appID).Updates(updates).Error
		if err != nil {
			return nil, errors.Wrap(err, "update app")
		}
	}
	app, err = s.load(appID)
	if err != nil {
		return nil, err
	}
	downloaded, err := s.hasDownloaded(caller.UserID, appID)
	if err != nil {
		return nil, err
	}
	rec := record(app, caller, downloaded)
	return &rec, nil
}

func (s *Store) Delete(caller Identity, appID string) error {
	app, err := s.load(appID)
	if err != nil {
		return err
	}
	if app.OwnerID != caller.UserID {
		return ErrForbidden
	}
	if err := s.db.Delete(&models.App{}, "id = ?", appID).Error; err != nil {
		return errors.Wrap(err, "delete app")
	}
	return nil
}

// Download records a download event: the caller joins the downloader set at
// most once, while the counter increments on every call. Both writes run in
// one transaction and are atomic at the database (conflict-ignoring insert,
// in-place increment), so concurrent calls never lose events.
func (s *Store) Download(caller Identity, appID string) (*AppRecord, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var app models.App
		if err := tx.First(&app, "id = ?", appID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return errors.Wrap(err, "load app")
		}
		dl := models.AppDownload{AppID: appID, UserID: caller.UserID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&dl).Error; err != nil {
			return errors.Wrap(err, "record downloader")
		}
		if err := tx.Model(&models.App{}).Where("id = ?", appID).
			UpdateColumn("download_count", gorm.Expr("download_count + 1")).Error; err != nil {
			return errors.Wrap(err, "increment download count")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	app, err := s.load(appID)
	if err != nil {
		return nil, err
	}
	rec := record(app, caller, true)
	return &rec, nil
}

// DownloadCount returns the raw counter with no redaction. Access is
// restricted to admins at the route layer.
func (s *Store) DownloadCount(appID string) (int64, error) {
	app, err := s.load(appID)
	if err != nil {
		return 0, err
	}
	return app.DownloadCount, nil
}

func (s *Store) load(appID string) (*models.App, error) {
	var app models.App
	if err := s.db.First(&app, "id = ?", appID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "load app")
	}
	return &app, nil
}

func (s *Store) hasDownloaded(userID uint, appID string) (bool, error) {
	var n int64
	err := s.db.Model(&models.AppDownload{}).
		Where("app_id = ? AND user_id = ?", appID, userID).
		Count(&n).Error
	if err != nil {
		return false, errors.Wrap(err, "check downloader")
	}
	return n > 0, nil
}

// downloadedSet returns which of the given apps the caller has downloaded.
// Admins see the counter everywhere, so the lookup is skipped for them.
func (s *Store) downloadedSet(caller Identity, apps []models.App) (map[string]bool, error) {
	set := make(map[string]bool)
	if caller.IsAdmin() || len(apps) == 0 {
		return set, nil
	}
	ids := make([]string, 0, len(apps))
	for i := range apps {
		ids = append(ids, apps[i].ID)
	}
	var rows []models.AppDownload
	err := s.db.Where("user_id = ? AND app_id IN ?", caller.UserID, ids).Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "load downloader set")
	}
	for _, r := range rows {
		set[r.AppID] = true
	}
	return set, nil
}
