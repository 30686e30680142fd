package dynamodb

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aussiebroadwan/accounts/internal/accounts/domain"
	"github.com/aussiebroadwan/accounts/internal/accounts/store"
	"github.com/aws/aws-sdk-go-v2/aws"
	ddb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const dynamoLocalImage = "amazon/dynamodb-local:2.5.2"

// setupDynamoLocal starts dynamodb-local and returns its endpoint.
func setupDynamoLocal(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping dynamodb-local integration test in short mode")
	}
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        dynamoLocalImage,
		ExposedPorts: []string{"8000/tcp"},
		Cmd:          []string{"-jar", "DynamoDBLocal.jar", "-inMemory", "-sharedDb"},
		WaitingFor:   wait.ForListeningPort("8000/tcp"),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Skipf("docker unavailable, skipping: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "8000")
	require.NoError(t, err)

	return fmt.Sprintf("http://%s:%s", host, port.Port())
}

func TestDynamoLocal(t *testing.T) {
	endpoint := setupDynamoLocal(t)
	ctx := context.Background()

	s, err := NewStore(ctx, Options{
		Table:           "users",
		Region:          "ap-southeast-2",
		Endpoint:        endpoint,
		AccessKeyID:     "local",
		SecretAccessKey: "local",
		CreateTable:     true,
	})
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	require.NoError(t, s.Ping(ctx))

	users := s.Users()

	u := testUser("ann1", "555-0100")
	require.NoError(t, users.CreateUser(ctx, u))
	require.ErrorIs(t, users.CreateUser(ctx, testUser("ann1", "555-0100")), store.ErrAlreadyExists)

	got, err := users.GetUserByUsername(ctx, "ann1")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	_, err = users.UpdateUser(ctx, "ann1", "555-0199", domain.UserPatch{Name: ptr("x")})
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = users.UpdateUser(ctx, "ghost", "555-0100", domain.UserPatch{Name: ptr("x")})
	require.ErrorIs(t, err, store.ErrNotFound)

	updated, err := users.UpdateUser(ctx, "ann1", "555-0100", domain.UserPatch{Role: ptr("editor")})
	require.NoError(t, err)
	require.Equal(t, "editor", updated.Role)
	require.Equal(t, "Ann", updated.Name)
}

func TestDynamoLocalCompositeKey(t *testing.T) {
	endpoint := setupDynamoLocal(t)
	ctx := context.Background()

	s, err := NewStore(ctx, Options{
		Table:           "users-composite",
		Region:          "ap-southeast-2",
		Endpoint:        endpoint,
		AccessKeyID:     "local",
		SecretAccessKey: "local",
	})
	require.NoError(t, err)

	_, err = s.client.CreateTable(ctx, &ddb.CreateTableInput{
		TableName: aws.String("users-composite"),
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String(attrUserName), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String(attrMobileNumber), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(attrUserName), KeyType: types.KeyTypeHash},
			{AttributeName: aws.String(attrMobileNumber), KeyType: types.KeyTypeRange},
		},
		BillingMode: types.BillingModePayPerRequest,
	})
	require.NoError(t, err)
	require.NoError(t, ddb.NewTableExistsWaiter(s.client).Wait(ctx,
		&ddb.DescribeTableInput{TableName: aws.String("users-composite")}, 25*time.Second))

	require.NoError(t, s.ApplyMigrations())
	require.Equal(t, layoutComposite, s.layout)

	users := s.Users()

	u := testUser("ann1", "555-0100")
	require.NoError(t, users.CreateUser(ctx, u))
	require.ErrorIs(t, users.CreateUser(ctx, testUser("ann1", "555-0199")), store.ErrAlreadyExists)

	got, err := users.GetUserByUsername(ctx, "ann1")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	_, err = users.UpdateUser(ctx, "ann1", "555-0199", domain.UserPatch{Name: ptr("x")})
	require.ErrorIs(t, err, store.ErrNotFound)

	updated, err := users.UpdateUser(ctx, "ann1", "555-0100", domain.UserPatch{Role: ptr("editor")})
	require.NoError(t, err)
	require.Equal(t, "editor", updated.Role)
}
