package sqlerr

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"regexp"
	"strings"

	"github.com/deppfellow/musician-api/internal/musician"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrCode reports the Code for err, or Other when err does not wrap an *Error.
func ErrCode(err error) Code {
	var pgerr *Error
	if errors.As(err, &pgerr) {
		return pgerr.Code
	}
	return Other
}

// ConvertPgError converts a pgconn.PgError (raw Postgres error) into *Error.
func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		Severity:       MapSeverity(src.Severity),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		SchemaName:     src.SchemaName,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		DataTypeName:   src.DataTypeName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}

// formatUserFriendlyMessage produces a client-facing message for a server error.
func formatUserFriendlyMessage(sqlErr *Error) string {
	entityName := getEntityName(sqlErr.TableName, sqlErr.ColumnName)

	switch sqlErr.Code {
	case ForeignKeyViolation:
		return fmt.Sprintf("The referenced %s does not exist", entityName)

	case UniqueViolation:
		// "identifier" is replaced when the constraint name reveals the column.
		message := fmt.Sprintf("A %s with this identifier already exists", entityName)
		if column := extractColumnForUniqueViolation(sqlErr.ConstraintName); column != "" {
			message = strings.ReplaceAll(message, "identifier", humanizeText(column))
		}
		return message

	case NotNullViolation:
		fieldName := humanizeText(sqlErr.ColumnName)
		if fieldName == "" {
			fieldName = "field"
		}
		return fmt.Sprintf("The %s is required", fieldName)

	case CheckViolation:
		fieldName := humanizeText(sqlErr.ColumnName)
		if fieldName != "" {
			return fmt.Sprintf("The %s value does not meet required conditions", fieldName)
		}
		return "One or more values do not meet required conditions"

	case InvalidJSON, InvalidTextRep:
		return fmt.Sprintf("The %s document is not valid", entityName)

	default:
		return ""
	}
}

// getEntityName infers an entity name from table/column data.
//
// Priority rules:
//  1. A column ending in "_id" names the entity ("musician_id" -> "Musician").
//  2. Otherwise the table name, singularized if it ends with "s".
//  3. Otherwise "musician", the only entity this service stores.
func getEntityName(tableName, columnName string) string {
	if columnName != "" && strings.HasSuffix(strings.ToLower(columnName), "_id") {
		entity := strings.TrimSuffix(strings.ToLower(columnName), "_id")
		return humanizeText(entity)
	}

	if tableName != "" {
		entity := tableName
		if strings.HasSuffix(entity, "s") && len(entity) > 1 {
			entity = entity[:len(entity)-1]
		}
		return humanizeText(entity)
	}

	return "musician"
}

// humanizeText converts snake_case into Title Case: "first_name" -> "First Name".
func humanizeText(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}

var uniqueKeySuffix = regexp.MustCompile(`_([^_]+)_(?:key|ukey)$`)

// extractColumnForUniqueViolation infers the column from a unique constraint name.
//
// It supports two conventions:
//
//  1. "unique_<table>_<column>"  e.g. unique_musicians_slug -> "slug"
//  2. "<table>_<column>_(key|ukey)"  e.g. musicians_slug_key -> "slug"
func extractColumnForUniqueViolation(constraintName string) string {
	if constraintName == "" {
		return ""
	}

	if strings.HasPrefix(constraintName, "unique_") {
		parts := strings.Split(constraintName, "_")
		if len(parts) >= 3 {
			return parts[len(parts)-1]
		}
	}

	matches := uniqueKeySuffix.FindStringSubmatch(constraintName)
	if len(matches) > 1 {
		return matches[1]
	}

	return ""
}

// HandleError converts a low-level database error from operation op on
// musician id into a *musician.Error.
//
// Output:
//   - nil stays nil; an existing *musician.Error is returned unchanged
//   - pgconn.PgError: mapped by SQLSTATE (conflict, invalid, unavailable, internal)
//   - pgx.ErrNoRows / sql.ErrNoRows: KindNotFound
//   - network failures and canceled contexts: KindUnavailable
//   - anything else: KindInternal
//
// Repositories call this right after a failed driver call.
func HandleError(op, id string, err error) error {
	if err == nil {
		return nil
	}

	var merr *musician.Error
	if errors.As(err, &merr) {
		return err
	}

	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		sqlErr := ConvertPgError(pgerr)

		kind := musician.KindInternal
		switch sqlErr.Code {
		case UniqueViolation:
			kind = musician.KindConflict
		case NotNullViolation, CheckViolation, ForeignKeyViolation, InvalidJSON, InvalidTextRep:
			kind = musician.KindInvalid
		case ConnectionFailure, QueryCanceled:
			kind = musician.KindUnavailable
		}

		return &musician.Error{
			Kind:    kind,
			Op:      op,
			ID:      id,
			Message: formatUserFriendlyMessage(sqlErr),
			Err:     sqlErr,
		}
	}

	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		return musician.NewError(musician.KindNotFound, op, id, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) || pgconn.SafeToRetry(err) ||
		errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return musician.NewError(musician.KindUnavailable, op, id, err)
	}

	return musician.NewError(musician.KindInternal, op, id, err)
}
