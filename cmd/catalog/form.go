package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/oasisprotocol/hxform"
	hxformecho "github.com/oasisprotocol/hxform/adapters/echo"
)

var errTaken = errors.New("username is already taken")

// accounts is an in-memory user registry standing in for a real backend.
type accounts struct {
	mu    sync.Mutex
	names map[string]struct{}
	delay time.Duration
}

func newAccounts() *accounts {
	return &accounts{
		names: map[string]struct{}{"admin": {}, "root": {}},
		delay: 400 * time.Millisecond,
	}
}

// available simulates a slow lookup.
func (a *accounts) available(ctx context.Context, name string) (bool, error) {
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case <-time.After(a.delay):
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	_, taken := a.names[strings.ToLower(name)]
	return !taken, nil
}

func (a *accounts) register(name string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	key := strings.ToLower(name)
	if _, taken := a.names[key]; taken {
		return errTaken
	}
	a.names[key] = struct{}{}
	return nil
}

type summary struct {
	Username string
	Plan     string
}

func newSignupForm(accts *accounts) hxformecho.FormFactory {
	return func(context.Context) (*hxformecho.Form, error) {
		return buildSignupForm(accts)
	}
}

func buildSignupForm(accts *accounts) (*hxformecho.Form, error) {
	current := summary{Plan: "personal"}
	var mu sync.Mutex

	preview, err := hxform.NewLabelField(hxform.LabelProps[summary]{
		Name:    "preview",
		TagName: "p",
		Classes: []string{"text-muted-foreground"},
		Format: func(s summary) string {
			if s.Username == "" {
				return ""
			}
			return fmt.Sprintf("Signing up **%s** on the *%s* plan.", s.Username, s.Plan)
		},
		Value: current,
	})
	if err != nil {
		return nil, err
	}
	updatePreview := func(change func(*summary)) {
		mu.Lock()
		change(&current)
		next := current
		mu.Unlock()
		preview.SetContent(next)
	}

	username, err := hxform.NewTextField(hxform.TextProps{
		Common: hxform.Common{
			Name:                  "username",
			Description:           "Letters and digits only.",
			Required:              true,
			ValidateOnChange:      true,
			ShowValidationSuccess: true,
		},
		MinLength: 3,
		MaxLength: 20,
		Validators: []hxform.Validator[string]{
			hxform.Check(func(v string) []hxform.Finding {
				for _, r := range v {
					if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
						return hxform.Problem("charset: Use only letters and digits")
					}
				}
				return nil
			}),
			func(ctx context.Context, v string, controls hxform.ValidatorControls, _ hxform.Reason) ([]hxform.Finding, error) {
				controls.UpdateStatus(hxform.StatusUpdate{Message: "Checking availability", Progress: 0.5})
				ok, err := accts.available(ctx, v)
				if err != nil {
					return nil, err
				}
				if !ok {
					return hxform.Problem(fmt.Sprintf("taken: **%s** is already taken", v)), nil
				}
				return []hxform.Finding{hxform.Message{Text: "Available!", Type: hxform.MessageInfo}}, nil
			},
		},
		OnValueChange: func(v string, _ func() bool) {
			updatePreview(func(s *summary) { s.Username = strings.TrimSpace(v) })
		},
	})
	if err != nil {
		return nil, err
	}

	password, err := hxform.NewTextField(hxform.TextProps{
		Common:    hxform.Common{Name: "password", Required: true, ValidateOnChange: true},
		HideInput: true,
		MinLength: 8,
		TooShortMessage: func(minLength int) string {
			return fmt.Sprintf("Use at least %d characters", minLength)
		},
		Validators: []hxform.Validator[string]{
			hxform.Check(func(v string) []hxform.Finding {
				if !strings.ContainsFunc(v, unicode.IsDigit) {
					return hxform.Warning("weak: Adding a digit makes it stronger")
				}
				return nil
			}),
		},
	})
	if err != nil {
		return nil, err
	}

	birthday, err := hxform.NewDateField(hxform.DateProps{
		Common:       hxform.Common{Name: "birthday", Required: true},
		Type:         hxform.DateOnly,
		InitialValue: time.Date(2000, 1, 1, 0, 0, 0, 0, time.Local),
		MinDate:      time.Date(1900, 1, 1, 0, 0, 0, 0, time.Local),
		MaxDate:      time.Now(),
	})
	if err != nil {
		return nil, err
	}

	company, err := hxform.NewTextField(hxform.TextProps{
		Common: hxform.Common{Name: "company", Required: true, Hidden: hxform.Flag(true)},
	})
	if err != nil {
		return nil, err
	}

	plan, err := hxform.NewOneOfField(hxform.OneOfProps[string]{
		Common: hxform.Common{Name: "plan"},
		Choices: []hxform.Choice[string]{
			{Value: "personal", Description: "For yourself"},
			{Value: "business", Description: "For your team"},
			{Value: "enterprise", Enabled: hxform.Deny("Contact sales")},
		},
		OnValueChange: func(v string, isSet bool, _ func() bool) {
			company.SetVisible(isSet && v == "business")
			updatePreview(func(s *summary) { s.Plan = v })
		},
	})
	if err != nil {
		return nil, err
	}

	country, err := hxform.NewOneOfField(hxform.OneOfProps[string]{
		Common:             hxform.Common{Name: "country", Required: true},
		PlaceholderDefault: true,
		Choices: []hxform.Choice[string]{
			{Value: "DE", Label: "Germany"},
			{Value: "FR", Label: "France"},
			{Value: "SI", Label: "Slovenia"},
		},
	})
	if err != nil {
		return nil, err
	}

	newsletter, err := hxform.NewBoolField(hxform.BoolProps{
		Common:          hxform.Common{Name: "newsletter", Label: "Send me the newsletter"},
		PreferredWidget: hxform.WidgetSwitch,
	})
	if err != nil {
		return nil, err
	}

	resettable := []interface{ Reset() hxform.Effects }{username, password, birthday, company, plan, country, newsletter}
	reset, err := hxform.NewActionField(hxform.ActionProps[struct{}]{
		Name:         "reset",
		Label:        "Start over",
		Variant:      "outline",
		PendingLabel: "Resetting",
		Confirmation: hxform.ConfirmWith("All entered data will be **lost**."),
		Action: func(ctx context.Context, ec hxform.ExecutionContext) (struct{}, error) {
			for _, f := range resettable {
				f.Reset()
			}
			ec.Log("Form cleared")
			return struct{}{}, nil
		},
	})
	if err != nil {
		return nil, err
	}

	return &hxformecho.Form{
		Title:       "Create an account",
		SubmitLabel: "Sign up",
		Fields: hxform.FieldArray{
			username,
			hxform.Row{password, birthday},
			hxform.Row{plan, company},
			country,
			newsletter,
			preview,
			reset,
		},
		OnSubmit: func(_ context.Context, values map[string]any) (string, error) {
			name, _ := values["username"].(string)
			if err := accts.register(name); err != nil {
				return "", err
			}
			return "Welcome, " + name + "!", nil
		},
	}, nil
}
