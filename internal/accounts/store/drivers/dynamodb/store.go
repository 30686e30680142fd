// Package dynamodb stores accounts in a single DynamoDB table partitioned by
// UserName, optionally with MobileNumber as sort key. Every write is a
// conditional request, so uniqueness and the (UserName, MobileNumber)
// addressing rule are enforced by DynamoDB itself.
package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/accounts/internal/accounts/store"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	ddb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// API is the subset of *dynamodb.Client the driver calls.
type API interface {
	GetItem(ctx context.Context, in *ddb.GetItemInput, optFns ...func(*ddb.Options)) (*ddb.GetItemOutput, error)
	PutItem(ctx context.Context, in *ddb.PutItemInput, optFns ...func(*ddb.Options)) (*ddb.PutItemOutput, error)
	UpdateItem(ctx context.Context, in *ddb.UpdateItemInput, optFns ...func(*ddb.Options)) (*ddb.UpdateItemOutput, error)
	DescribeTable(ctx context.Context, in *ddb.DescribeTableInput, optFns ...func(*ddb.Options)) (*ddb.DescribeTableOutput, error)
	CreateTable(ctx context.Context, in *ddb.CreateTableInput, optFns ...func(*ddb.Options)) (*ddb.CreateTableOutput, error)
	Query(ctx context.Context, in *ddb.QueryInput, optFns ...func(*ddb.Options)) (*ddb.QueryOutput, error)
	TransactWriteItems(ctx context.Context, in *ddb.TransactWriteItemsInput, optFns ...func(*ddb.Options)) (*ddb.TransactWriteItemsOutput, error)
}

var _ API = (*ddb.Client)(nil)

// Options configures NewStore.
type Options struct {
	Table  string
	Region string

	// Endpoint overrides the service URL, e.g. http://localhost:8000 for
	// dynamodb-local.
	Endpoint string

	// Static credentials. When empty the default AWS credential chain is used.
	AccessKeyID     string
	SecretAccessKey string

	// CreateTable creates the table in ApplyMigrations when it is missing.
	CreateTable bool
}

// keyLayout is the primary key shape of the users table.
type keyLayout int

const (
	// layoutUserName partitions on UserName alone. ApplyMigrations creates
	// tables this way.
	layoutUserName keyLayout = iota

	// layoutComposite partitions on UserName with MobileNumber as sort key.
	// Usernames are looked up with Query and reserved by a claim item.
	layoutComposite
)

type Store struct {
	client      API
	table       string
	createTable bool
	layout      keyLayout
}

// loadDefaultAWSConfig is swapped in tests.
var loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

// NewStore builds a DynamoDB client from opts.
func NewStore(ctx context.Context, opts Options) (*Store, error) {
	if opts.Table == "" {
		return nil, errors.New("dynamodb: table name is required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{}
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}
	if opts.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		))
	}

	cfg, err := loadDefaultAWSConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("dynamodb: load aws config: %w", err)
	}

	client := ddb.NewFromConfig(cfg, func(o *ddb.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
	})

	s := New(client, opts.Table)
	s.createTable = opts.CreateTable
	return s, nil
}

// New wraps an existing client.
func New(client API, table string) *Store {
	return &Store{client: client, table: table}
}

func (s *Store) Users() store.Users {
	return &usersRepo{client: s.client, table: s.table, layout: s.layout}
}

// Close is a no-op; the SDK client holds no resources that need releasing.
func (s *Store) Close() error { return nil }

// Ping describes the table to confirm the endpoint and credentials work.
func (s *Store) Ping(ctx context.Context) error {
	_, err := s.client.DescribeTable(ctx, &ddb.DescribeTableInput{TableName: aws.String(s.table)})
	if err != nil {
		return fmt.Errorf("dynamodb: describe table %s: %w", s.table, err)
	}
	return nil
}

// ApplyMigrations checks that the table exists and has a key schema the
// driver can address, creating the table first when the store was configured
// to. It must run before Users is called.
func (s *Store) ApplyMigrations() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	out, err := s.client.DescribeTable(ctx, &ddb.DescribeTableInput{TableName: aws.String(s.table)})
	if err == nil {
		layout, err := layoutOf(s.table, out.Table)
		if err != nil {
			return err
		}
		s.layout = layout
		return nil
	}

	var notFound *types.ResourceNotFoundException
	if !errors.As(err, &notFound) || !s.createTable {
		return fmt.Errorf("dynamodb: describe table %s: %w", s.table, err)
	}

	_, err = s.client.CreateTable(ctx, &ddb.CreateTableInput{
		TableName: aws.String(s.table),
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String(attrUserName), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(attrUserName), KeyType: types.KeyTypeHash},
		},
		BillingMode: types.BillingModePayPerRequest,
	})
	if err != nil {
		return fmt.Errorf("dynamodb: create table %s: %w", s.table, err)
	}

	waiter := ddb.NewTableExistsWaiter(s.client)
	if err := waiter.Wait(ctx, &ddb.DescribeTableInput{TableName: aws.String(s.table)}, 25*time.Second); err != nil {
		return fmt.Errorf("dynamodb: wait for table %s: %w", s.table, err)
	}
	s.layout = layoutUserName
	return nil
}

// layoutOf maps a table's key schema to a keyLayout. Any other schema is an
// error so a mismatched table stops startup instead of failing every request.
func layoutOf(table string, td *types.TableDescription) (keyLayout, error) {
	if td == nil {
		return 0, fmt.Errorf("dynamodb: describe table %s: no table description", table)
	}

	var hash, sort string
	for _, k := range td.KeySchema {
		switch k.KeyType {
		case types.KeyTypeHash:
			hash = aws.ToString(k.AttributeName)
		case types.KeyTypeRange:
			sort = aws.ToString(k.AttributeName)
		}
	}
	for _, def := range td.AttributeDefinitions {
		name := aws.ToString(def.AttributeName)
		if (name == hash || name == sort) && def.AttributeType != types.ScalarAttributeTypeS {
			return 0, fmt.Errorf("dynamodb: table %s: key attribute %s has type %s, want S", table, name, def.AttributeType)
		}
	}

	switch {
	case hash == attrUserName && sort == "":
		return layoutUserName, nil
	case hash == attrUserName && sort == attrMobileNumber:
		return layoutComposite, nil
	}
	return 0, fmt.Errorf(
		"dynamodb: table %s has key schema (hash %q, range %q), want hash %q with no range or range %q",
		table, hash, sort, attrUserName, attrMobileNumber,
	)
}
