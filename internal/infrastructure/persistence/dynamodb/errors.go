package dynamodb

import (
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"

	"github.com/altpay/wallet/internal/application/ports"
)

// translateError converts an SDK failure into the storage taxonomy.
// Callers above the store never see SDK error types.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var canceled *types.TransactionCanceledException
	if errors.As(err, &canceled) {
		return canceledError(canceled)
	}

	var conditionFailed *types.ConditionalCheckFailedException
	if errors.As(err, &conditionFailed) {
		return fmt.Errorf("%w: %s", ports.ErrConditionalCheckFailed, safeMessage(conditionFailed.Message))
	}

	var conflict *types.TransactionConflictException
	if errors.As(err, &conflict) {
		return fmt.Errorf("%w: %s", ports.ErrTransactionConflict, safeMessage(conflict.Message))
	}

	var notFound *types.ResourceNotFoundException
	if errors.As(err, &notFound) {
		return fmt.Errorf("%w: table missing: %s", ports.ErrStorageInternal, safeMessage(notFound.Message))
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "ConditionalCheckFailedException":
			return fmt.Errorf("%w: %s", ports.ErrConditionalCheckFailed, apiErr.ErrorMessage())
		case "TransactionConflictException":
			return fmt.Errorf("%w: %s", ports.ErrTransactionConflict, apiErr.ErrorMessage())
		case "ValidationException":
			return fmt.Errorf("%w: %s", ports.ErrInvalidArgument, apiErr.ErrorMessage())
		default:
			return fmt.Errorf("%w: %s: %s", ports.ErrStorageInternal, apiErr.ErrorCode(), apiErr.ErrorMessage())
		}
	}

	return fmt.Errorf("%w: %v", ports.ErrStorageInternal, err)
}

// canceledError maps a cancelled batch onto one cancellation code per
// submitted item, preserving positions.
func canceledError(e *types.TransactionCanceledException) error {
	reasons := make([]ports.CancellationCode, len(e.CancellationReasons))
	for i, reason := range e.CancellationReasons {
		reasons[i] = cancellationCode(reason.Code)
	}
	return &ports.TransactionCanceledError{Reasons: reasons}
}

func cancellationCode(code *string) ports.CancellationCode {
	if code == nil {
		return ports.CancellationNone
	}
	switch *code {
	case "None":
		return ports.CancellationNone
	case "ConditionalCheckFailed":
		return ports.CancellationConditionalCheckFailed
	case "TransactionConflict":
		return ports.CancellationTransactionConflict
	default:
		// Throttling, capacity and validation reasons all mean the
		// item blocked the batch; callers treat them as a failed
		// condition slot.
		return ports.CancellationConditionalCheckFailed
	}
}

func safeMessage(msg *string) string {
	if msg == nil {
		return ""
	}
	return *msg
}

// isResourceInUse reports whether the error means the table already
// exists. Table creation treats it as a warning, not a failure.
func isResourceInUse(err error) bool {
	var inUse *types.ResourceInUseException
	if errors.As(err, &inUse) {
		return true
	}
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == "ResourceInUseException"
}

// isResourceNotFound reports whether the error means the table itself
// is missing.
func isResourceNotFound(err error) bool {
	var notFound *types.ResourceNotFoundException
	if errors.As(err, &notFound) {
		return true
	}
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == "ResourceNotFoundException"
}

// isConditionalCheckFailed checks a translated error against the
// taxonomy sentinel.
func isConditionalCheckFailed(err error) bool {
	return errors.Is(err, ports.ErrConditionalCheckFailed)
}
