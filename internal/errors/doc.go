// Package errors provides structured errors for the sheet engine.
//
// Errors carry a code, a message and optional metadata:
//
//	err := errors.NotFound("library entry not found").
//	    WithMeta("entry_id", id)
//
// Wrapping keeps the code of an existing Error:
//
//	if err := repo.Save(ctx, data); err != nil {
//	    return errors.Wrap(err, "failed to persist document")
//	}
//
// WrapWithCode changes the semantics of a lower level failure:
//
//	if err := json.Unmarshal(data, &doc); err != nil {
//	    return errors.WrapWithCode(err, errors.CodeInvalidArgument, "import file is not JSON")
//	}
//
// # Layer Guidelines
//
// Repository layer:
//   - Return Unavailable when the backing store cannot be reached
//   - Wrap driver errors with the key or path involved
//
// Store and orchestrator layer:
//   - Validate intents and inputs and return InvalidArgument
//   - Return FailedPrecondition for import actions a file cannot support
//   - Return NotFound for library entries or skills that do not exist
//
// Command line:
//   - Report unreadable input documents as DataLoss
//   - Print the error and exit with ExitCode(err)
//
// # Validation Errors
//
//	vb := errors.NewValidationBuilder()
//	errors.ValidateRequired("storage", cfg.Storage, vb)
//	errors.ValidateEnum("storage", cfg.Storage, []string{"redis", "sqlite"}, vb)
//	if err := vb.Build(); err != nil {
//	    return err
//	}
package errors
