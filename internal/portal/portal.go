package portal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/ktnetscraper/ktnet/internal/handout"
	"github.com/ktnetscraper/ktnet/internal/kttime"
	"github.com/ktnetscraper/ktnet/internal/logger"
	"github.com/ktnetscraper/ktnet/internal/parser"
)

var (
	// ErrWrongCredentials means the portal answered a login with the login
	// page again.
	ErrWrongCredentials = errors.New("wrong user id or password")

	// ErrIncompleteArgument means only one of faculty and grade was given.
	ErrIncompleteArgument = errors.New("faculty and grade must be given together")
)

// Login posts the credentials and checks that the portal moved past the login
// page. The session cookie is kept for later requests.
func (c *Client) Login(ctx context.Context, userID, password string) error {
	form := map[string]string{
		"strUserId":      userID,
		"strPassWord":    password,
		"strFromAddress": "",
	}

	text, err := c.page(ctx, http.MethodPost, loginPath, form)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	ok, err := parser.LoginStatus(text)
	if err != nil {
		form["strPassWord"] = strings.Repeat("*", len([]rune(password)))
		return fmt.Errorf("login: POST %s data %v: %w", loginPath, form, err)
	}
	if !ok {
		logger.Warn("Login rejected", logger.Fields{"user": userID})
		return ErrWrongCredentials
	}

	logger.Info("Logged in", logger.Fields{"user": userID})
	return nil
}

// LoginStatus reports whether the session is logged in.
func (c *Client) LoginStatus(ctx context.Context) (bool, error) {
	text, err := c.page(ctx, http.MethodGet, menuPath, nil)
	if err != nil {
		return false, err
	}
	return parser.LoginStatus(text)
}

// FacultyAndGrade returns the logged-in student's faculty code and grade.
func (c *Client) FacultyAndGrade(ctx context.Context) (faculty, grade string, err error) {
	text, err := c.page(ctx, http.MethodGet, timetablePath, nil)
	if err != nil {
		return "", "", err
	}
	return parser.FacultyAndGrade(text)
}

// HandoutPageURLs returns the handout-detail pages listed on the timetable
// of date. Empty faculty and grade query the logged-in student's own
// timetable.
func (c *Client) HandoutPageURLs(ctx context.Context, date kttime.DateInput, faculty, grade string) ([]string, error) {
	form, err := timetableForm(date, faculty, grade)
	if err != nil {
		return nil, err
	}

	text, err := c.page(ctx, http.MethodPost, timetablePath, form)
	if err != nil {
		return nil, err
	}
	return parser.HandoutPageURLsFrom(text, c.handoutBase())
}

func timetableForm(date kttime.DateInput, faculty, grade string) (map[string]string, error) {
	if (faculty == "") != (grade == "") {
		if faculty == "" {
			return nil, fmt.Errorf("%w: grade %q given without faculty", ErrIncompleteArgument, grade)
		}
		return nil, fmt.Errorf("%w: faculty %q given without grade", ErrIncompleteArgument, faculty)
	}

	d, err := date.Date()
	if err != nil {
		return nil, err
	}

	form := map[string]string{
		"intSelectYear":  fmt.Sprintf("%04d", d.Year),
		"intSelectMonth": fmt.Sprintf("%02d", int(d.Month)),
		"intSelectDay":   fmt.Sprintf("%02d", d.Day),
	}
	if faculty != "" {
		form["strSelectGakubuNen"] = faculty + "," + grade
	}
	return form, nil
}

// FetchHandout reads one handout-detail page.
func (c *Client) FetchHandout(ctx context.Context, pageURL string) (handout.Record, error) {
	text, err := c.page(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return handout.Record{}, err
	}

	rec, err := parser.ExtractHandoutFrom(text, c.handoutBase())
	if err != nil {
		return handout.Record{}, fmt.Errorf("extracting %s: %w", pageURL, err)
	}
	logger.IncrCounter("handouts.parsed")
	return rec, nil
}

// FetchHandouts collects every handout of date's timetable. Pages are fetched
// one after another; the first failure aborts the run.
func (c *Client) FetchHandouts(ctx context.Context, date kttime.DateInput, faculty, grade string) (*handout.Collection, error) {
	sessionDate, err := kttime.NormalizeDate(date)
	if err != nil {
		return nil, err
	}

	urls, err := c.HandoutPageURLs(ctx, date, faculty, grade)
	if err != nil {
		return nil, err
	}

	coll := handout.NewCollection()
	for _, u := range urls {
		rec, err := c.FetchHandout(ctx, u)
		if err != nil {
			return nil, err
		}
		rec.SessionDate = sessionDate
		coll.Append(rec)
	}

	logger.Info("Fetched handouts", logger.Fields{
		"date":  sessionDate,
		"pages": len(urls),
	})
	return coll, nil
}

// Download returns the raw bytes behind a handout's download URL.
func (c *Client) Download(ctx context.Context, fileURL string) ([]byte, error) {
	body, err := c.do(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, err
	}
	logger.AddCounter("download.bytes", int64(len(body)))
	return body, nil
}
