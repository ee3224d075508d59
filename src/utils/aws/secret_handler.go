package aws_handler

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/secretsmanager"
	"github.com/aws/aws-sdk-go/service/secretsmanager/secretsmanageriface"
)

// SecretGetter resolves a secret by id.
type SecretGetter interface {
	GetSecretValue(ctx context.Context, secretID string) (string, error)
}

type SecretManager struct {
	svc secretsmanageriface.SecretsManagerAPI
}

func NewSecretManager(svc secretsmanageriface.SecretsManagerAPI) *SecretManager {
	return &SecretManager{svc: svc}
}

func (s *SecretManager) GetSecretValue(ctx context.Context, secretID string) (string, error) {
	input := &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretID),
	}

	result, err := s.svc.GetSecretValueWithContext(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to read secret %s: %w", secretID, err)
	}
	if result.SecretString == nil {
		return "", fmt.Errorf("secret %s has no string value", secretID)
	}

	return *result.SecretString, nil
}

// ResolveKey returns key when it is set and otherwise reads secretID.
func ResolveKey(ctx context.Context, getter SecretGetter, key, secretID string) (string, error) {
	if key != "" || secretID == "" {
		return key, nil
	}
	if getter == nil {
		return "", fmt.Errorf("secret %s configured but no secret manager is available", secretID)
	}
	return getter.GetSecretValue(ctx, secretID)
}
