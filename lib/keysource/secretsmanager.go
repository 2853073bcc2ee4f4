// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package keysource

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/secretsmanager"

	"github.com/bureau-foundation/smssh/lib/secret"
)

// fetchSecretsManager retrieves the secret value for secretARN using
// the default AWS credential chain (environment, shared config,
// instance metadata). The secret's string field is preferred; binary
// secrets are accepted as-is.
func fetchSecretsManager(ctx context.Context, secretARN string) (*secret.Buffer, error) {
	awsSession, err := session.NewSessionWithOptions(session.Options{
		SharedConfigState: session.SharedConfigEnable,
	})
	if err != nil {
		return nil, &FetchError{Reference: secretARN, Kind: Transport, Err: fmt.Errorf("creating AWS session: %w", err)}
	}

	client := secretsmanager.New(awsSession)
	output, err := client.GetSecretValueWithContext(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretARN),
	})
	if err != nil {
		return nil, classifyAWSError(secretARN, err)
	}

	var raw []byte
	switch {
	case output.SecretString != nil:
		raw = []byte(*output.SecretString)
	case output.SecretBinary != nil:
		raw = output.SecretBinary
	default:
		return nil, &FetchError{
			Reference: secretARN,
			Kind:      Malformed,
			Err:       errors.New("secret has neither a string nor a binary value"),
		}
	}

	// NewFromBytes zeroes raw after copying into protected memory.
	buffer, err := secret.NewFromBytes(raw)
	if err != nil {
		return nil, &FetchError{Reference: secretARN, Kind: Malformed, Err: err}
	}
	return buffer, nil
}

// classifyAWSError maps AWS SDK error codes onto FetchError kinds.
// Best guess based on Amazon's documented codes; anything unrecognized
// is treated as a transport failure so the operator knows a retry may
// help.
func classifyAWSError(secretARN string, err error) *FetchError {
	fetchError := &FetchError{Reference: secretARN, Kind: Transport, Err: err}

	var awsError awserr.Error
	if !errors.As(err, &awsError) {
		return fetchError
	}

	switch awsError.Code() {
	case secretsmanager.ErrCodeResourceNotFoundException:
		fetchError.Kind = NotFound
	case "AccessDeniedException", "UnrecognizedClientException", "ExpiredTokenException":
		fetchError.Kind = AccessDenied
	case secretsmanager.ErrCodeDecryptionFailure,
		secretsmanager.ErrCodeInvalidParameterException,
		secretsmanager.ErrCodeInvalidRequestException:
		fetchError.Kind = Malformed
	case secretsmanager.ErrCodeInternalServiceError, request.ErrCodeRequestError:
		fetchError.Kind = Transport
	}
	return fetchError
}
