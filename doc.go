// Package hxform provides form fields with declarative validation for
// server-rendered web applications.
//
// Each field is a small state machine owning a value, its visibility and
// enablement, and the messages produced by validating it. Typed fields are
// built on a single generic core, InputField[T], which is parameterized by
// a DataType[T] describing emptiness and equality.
//
// # Fields
//
//	email := hxform.Must(hxform.NewTextField(hxform.TextProps{
//	    Common:    hxform.Common{Name: "email", Required: true, ValidateOnChange: true},
//	    MinLength: 5,
//	    Validators: []hxform.Validator[string]{
//	        hxform.Check(func(v string) []hxform.Finding {
//	            if !strings.Contains(v, "@") {
//	                return hxform.Problem("noAt: This does not look like an email address")
//	            }
//	            return nil
//	        }),
//	    },
//	}))
//
// Available types are TextField, BoolField, DateField, OneOfField (with an
// optional placeholder that makes it nullable), LabelField for read-only
// computed content, and ActionField for buttons that run an operation with
// optional confirmation.
//
// Contradictory props (visible and hidden both true, enabled and disabled
// agreeing) are configuration errors returned by the constructors. Must
// turns them into panics.
//
// # Value changes
//
// SetValue never starts work on its own. It returns Effects describing what
// happened and which validation is due; the caller runs it:
//
//	eff := email.SetValue(input)
//	go eff.Run(ctx)
//
// # Validation
//
// Validate runs the required check and then each validator in order,
// stopping at the first error. Every run gets a session number; a run that
// was overtaken by a newer one (or whose context ended) commits nothing.
// Validators returning an error do not fail the field, they produce an
// "Error while checking" message instead.
//
// Messages are reported as Findings: Plain text, optionally prefixed by a
// signature ("tooShort: Use more letters"), or a structured Message with a
// type and location.
//
// # Groups
//
// Fields are arranged in Rows, FieldArrays and FieldMaps. ValidateFields
// validates a whole group and GetFieldValues collects its values.
//
// Rendering lives in the render package; adapters/echo binds forms to HTTP.
package hxform
