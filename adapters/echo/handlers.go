package hxformecho

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/oasisprotocol/hxform"
	"github.com/oasisprotocol/hxform/render"
)

const sessionCookie = "hxform_session"

// fieldToken names a field of a session in URLs.
type fieldToken struct {
	Session string `msgpack:"s"`
	Field   string `msgpack:"f"`
}

type sessionCookieValue struct {
	ID string `msgpack:"id"`
}

// session returns the caller's session. Without a live one a new session is
// started if create is set.
func (s *Server) session(c echo.Context, create bool) (*session, error) {
	if cookie, err := c.Cookie(sessionCookie); err == nil {
		var v sessionCookieValue
		if err := s.codec.Open(cookie.Value, &v); err == nil {
			if sess, ok := s.sessions.Get(v.ID); ok {
				return sess, nil
			}
		} else {
			s.log.Debug("rejected session cookie", "err", err)
		}
	}
	if !create {
		return nil, echo.NewHTTPError(http.StatusGone, "session expired, reload the page")
	}

	form, err := s.factory(c.Request().Context())
	if err != nil {
		return nil, err
	}
	sess := newSession(uuid.NewString(), form)
	sealed, err := s.codec.Seal(sessionCookieValue{ID: sess.id})
	if err != nil {
		sess.close()
		return nil, err
	}
	s.sessions.Add(sess.id, sess)
	c.SetCookie(&http.Cookie{
		Name:     sessionCookie,
		Value:    sealed,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	s.log.Debug("session started", "session", sess.id)
	return sess, nil
}

func (s *Server) renderOptions(sess *session) render.Options {
	return render.Options{
		Animation: s.opts.animation,
		Endpoint: func(f hxform.FieldLike, op string) string {
			token, err := s.codec.Sign(fieldToken{Session: sess.id, Field: f.ID()})
			if err != nil {
				s.log.Error("signing field token", "field", f.ID(), "err", err)
				return ""
			}
			return s.Path() + "/f/" + token + "/" + op
		},
	}
}

// resolveField checks the token against the caller's session.
func (s *Server) resolveField(c echo.Context) (*session, hxform.FieldLike, error) {
	sess, err := s.session(c, false)
	if err != nil {
		return nil, nil, err
	}
	var token fieldToken
	if err := s.codec.Verify(c.Param("token"), &token); err != nil {
		return nil, nil, echo.NewHTTPError(http.StatusForbidden, "invalid field token")
	}
	if token.Session != sess.id {
		return nil, nil, echo.NewHTTPError(http.StatusForbidden, "field token belongs to another session")
	}
	f, ok := sess.field(token.Field)
	if !ok {
		return nil, nil, echo.NewHTTPError(http.StatusNotFound, "unknown field")
	}
	return sess, f, nil
}

func (s *Server) handlePage(c echo.Context) error {
	sess, err := s.session(c, true)
	if err != nil {
		return err
	}
	return Render(c, s.opts.layout(sess.form.Title, s.formBody(sess)))
}

func (s *Server) handleField(c echo.Context) error {
	sess, f, err := s.resolveField(c)
	if err != nil {
		return err
	}
	switch op := c.Param("op"); op {
	case render.OpValue:
		return s.setValue(c, sess, f)
	case render.OpExecute, render.OpConfirm, render.OpDeny:
		trigger, ok := f.(hxform.Trigger)
		if !ok {
			return echo.NewHTTPError(http.StatusBadRequest, "field is not an action")
		}
		return s.trigger(c, sess, trigger, op)
	default:
		return echo.NewHTTPError(http.StatusNotFound, "unknown operation "+op)
	}
}

// setValue applies browser input and answers with the field's feedback
// plus every other field the change touched.
func (s *Server) setValue(c echo.Context, sess *session, f hxform.FieldLike) error {
	setter, ok := f.(hxform.RawSetter)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "field does not accept input")
	}
	if !f.IsVisible() || !f.IsEnabled() {
		return echo.NewHTTPError(http.StatusConflict, "field is not editable")
	}

	eff, err := setter.SetRaw(c.FormValue(f.Name()))
	if err != nil {
		if errors.Is(err, hxform.ErrInvalidInput) {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
		}
		return err
	}
	if text, ok := f.(*hxform.TextField); ok && c.FormValue(render.EnterParam) == "true" {
		text.Enter()
	}
	if eff.Validation != nil {
		done := make(chan struct{})
		go func() {
			defer close(done)
			eff.Run(sess.ctx)
		}()
		s.await(c.Request().Context(), done, nil)
	}

	opts := s.renderOptions(sess)
	return Render(c, templ.Join(
		render.Feedback(f, opts),
		s.outOfBand(sess, f.ID()),
	))
}

// trigger runs, confirms or denies an action and answers with the action
// re-rendered.
func (s *Server) trigger(c echo.Context, sess *session, f hxform.Trigger, op string) error {
	var flashes []render.Flash
	switch op {
	case render.OpExecute:
		done := make(chan struct{})
		var runErr error
		go func() {
			defer close(done)
			runErr = f.Trigger(sess.ctx)
			if runErr != nil && !hxform.IsCancelled(runErr) && !errors.Is(runErr, hxform.ErrAlreadyRunning) {
				s.log.Warn("action failed", "field", f.Name(), "err", runErr)
			}
		}()
		finished := s.await(c.Request().Context(), done, func() bool { return f.ConfirmationNeeded() != nil })
		if finished {
			flashes = append(flashes, actionFlash(f, runErr)...)
		}
	case render.OpConfirm:
		if f.Confirm() {
			s.await(c.Request().Context(), nil, func() bool { return !f.IsPending() })
		}
	case render.OpDeny:
		f.Deny()
	}

	opts := s.renderOptions(sess)
	return Render(c, templ.Join(
		render.Field(f, opts),
		s.outOfBand(sess, f.ID()),
		render.FlashesOOB(flashes),
	))
}

func actionFlash(f hxform.Trigger, err error) []render.Flash {
	switch {
	case err == nil:
		return nil
	case hxform.IsCancelled(err):
		return []render.Flash{{Level: render.FlashInfo, Message: "Cancelled."}}
	case errors.Is(err, hxform.ErrAlreadyRunning):
		return []render.Flash{{Level: render.FlashWarning, Message: f.Label() + " is already running."}}
	default:
		return []render.Flash{{Level: render.FlashError, Message: err.Error()}}
	}
}

func (s *Server) handleSubmit(c echo.Context) error {
	sess, err := s.session(c, false)
	if err != nil {
		return err
	}
	if err := s.applyForm(c, sess); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), s.opts.wait)
	defer cancel()
	hasError := hxform.ValidateFields(ctx, sess.form.Fields, hxform.ReasonSubmit, nil)
	finished := ctx.Err() == nil && allValidated(sess.form.Fields)

	var flashes []render.Flash
	switch {
	case !finished:
		flashes = append(flashes, render.Flash{Level: render.FlashWarning, Message: "Some fields are still being checked. Please submit again in a moment."})
	case hasError || hxform.DoFieldsHaveAnError(sess.form.Fields):
		flashes = append(flashes, render.Flash{Level: render.FlashError, Message: "Please fix the highlighted fields."})
	case sess.form.OnSubmit != nil:
		message, err := sess.form.OnSubmit(c.Request().Context(), hxform.GetFieldValues(sess.form.Fields))
		if err != nil {
			s.log.Warn("submit failed", "session", sess.id, "err", err)
			flashes = append(flashes, render.Flash{Level: render.FlashError, Message: err.Error()})
			break
		}
		if message == "" {
			message = "Submitted."
		}
		flashes = append(flashes, render.Flash{Level: render.FlashSuccess, Message: message})
		c.Response().Header().Set("HX-Trigger", render.TriggerHeader("hxform:submitted", nil))
	default:
		flashes = append(flashes, render.Flash{Level: render.FlashSuccess, Message: "Submitted."})
		c.Response().Header().Set("HX-Trigger", render.TriggerHeader("hxform:submitted", nil))
	}

	sess.takeChanged("")
	return Render(c, templ.Join(
		render.Group(sess.form.Fields, s.renderOptions(sess)),
		render.FlashesOOB(flashes),
	))
}

// allValidated reports whether every visible input finished a validation
// run. Actions carry no value and are not checked.
func allValidated(fields hxform.Group) bool {
	for _, f := range fields.Flatten() {
		if f.Kind() == hxform.KindAction || !f.IsVisible() {
			continue
		}
		if !f.Snapshot().IsValidated {
			return false
		}
	}
	return true
}

// applyForm copies the submitted values into the fields, catching input
// that had not been posted yet. Unchecked checkboxes are absent from the
// form, so boolean fields are always set.
func (s *Server) applyForm(c echo.Context, sess *session) error {
	params, err := c.FormParams()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	for _, f := range sess.form.Fields.Flatten() {
		setter, ok := f.(hxform.RawSetter)
		if !ok || !f.IsVisible() || !f.IsEnabled() {
			continue
		}
		values, present := params[f.Name()]
		if !present && f.Kind() != hxform.KindBool {
			continue
		}
		raw := ""
		if len(values) > 0 {
			raw = values[0]
		}
		if _, err := setter.SetRaw(raw); err != nil {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
		}
	}
	return nil
}

// outOfBand renders the fields changed as a side effect, except skip.
func (s *Server) outOfBand(sess *session, skip string) templ.Component {
	opts := s.renderOptions(sess)
	opts.OOB = true
	var parts []templ.Component
	for _, f := range sess.takeChanged(skip) {
		parts = append(parts, render.Field(f, opts))
	}
	return templ.Join(parts...)
}

// await blocks until done is closed, ready reports true, the request ends,
// or the validation wait runs out. It reports whether done was closed.
func (s *Server) await(ctx context.Context, done <-chan struct{}, ready func() bool) bool {
	timeout := time.NewTimer(s.opts.wait)
	defer timeout.Stop()
	tick := time.NewTicker(10 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case <-done:
			return true
		case <-ctx.Done():
			return false
		case <-timeout.C:
			return false
		case <-tick.C:
			if ready != nil && ready() {
				return false
			}
		}
	}
}
