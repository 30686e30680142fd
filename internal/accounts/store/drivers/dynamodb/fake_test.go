package dynamodb

import (
	"context"
	"errors"
	"maps"
	"sort"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	ddb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeTable is an in-process stand-in for a single DynamoDB table. It only
// understands the expressions the driver sends, and like DynamoDB it rejects
// keys that do not match its key schema.
type fakeTable struct {
	mu     sync.Mutex
	name   string
	exists bool
	items  map[string]map[string]types.AttributeValue
	calls  map[string]int

	// sortKey is the range key attribute, empty for a hash-only table.
	sortKey string

	// keySchema overrides what DescribeTable reports.
	keySchema []types.KeySchemaElement

	// failWith makes every data call return this error.
	failWith error
}

var _ API = (*fakeTable)(nil)

func newFakeTable(name string) *fakeTable {
	return &fakeTable{
		name:   name,
		exists: true,
		items:  map[string]map[string]types.AttributeValue{},
		calls:  map[string]int{},
	}
}

// newCompositeFakeTable is keyed UserName HASH + MobileNumber RANGE.
func newCompositeFakeTable(name string) *fakeTable {
	f := newFakeTable(name)
	f.sortKey = attrMobileNumber
	return f
}

func stringAttr(av map[string]types.AttributeValue, name string) (string, bool) {
	s, ok := av[name].(*types.AttributeValueMemberS)
	if !ok {
		return "", false
	}
	return s.Value, true
}

// storageKey is "user" for hash-only tables and "user|mobile" otherwise.
func (f *fakeTable) storageKey(av map[string]types.AttributeValue) string {
	user, _ := stringAttr(av, attrUserName)
	if f.sortKey == "" {
		return user
	}
	sk, _ := stringAttr(av, f.sortKey)
	return user + "|" + sk
}

func validationError(msg string) error {
	return errors.New("ValidationException: " + msg)
}

// checkKey enforces that key names exactly the table's key attributes.
func (f *fakeTable) checkKey(key map[string]types.AttributeValue) error {
	want := 1
	if f.sortKey != "" {
		want = 2
	}
	if _, ok := stringAttr(key, attrUserName); !ok || len(key) != want {
		return validationError("The provided key element does not match the schema")
	}
	if f.sortKey != "" {
		if _, ok := stringAttr(key, f.sortKey); !ok {
			return validationError("The provided key element does not match the schema")
		}
	}
	return nil
}

// checkItem enforces that a full item carries every key attribute.
func (f *fakeTable) checkItem(item map[string]types.AttributeValue) error {
	if _, ok := stringAttr(item, attrUserName); !ok {
		return validationError("One or more parameter values were invalid: Missing the key UserName in the item")
	}
	if f.sortKey != "" {
		if _, ok := stringAttr(item, f.sortKey); !ok {
			return validationError("One or more parameter values were invalid: Missing the key " + f.sortKey + " in the item")
		}
	}
	return nil
}

func conditionFailed() error {
	return &types.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")}
}

func (f *fakeTable) check(table *string) error {
	if f.failWith != nil {
		return f.failWith
	}
	if !f.exists || aws.ToString(table) != f.name {
		return &types.ResourceNotFoundException{Message: aws.String("Requested resource not found")}
	}
	return nil
}

func (f *fakeTable) GetItem(_ context.Context, in *ddb.GetItemInput, _ ...func(*ddb.Options)) (*ddb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["GetItem"]++

	if err := f.check(in.TableName); err != nil {
		return nil, err
	}
	if err := f.checkKey(in.Key); err != nil {
		return nil, err
	}
	if !aws.ToBool(in.ConsistentRead) {
		return nil, errors.New("fake: expected consistent read")
	}
	item, ok := f.items[f.storageKey(in.Key)]
	if !ok {
		return &ddb.GetItemOutput{}, nil
	}
	return &ddb.GetItemOutput{Item: maps.Clone(item)}, nil
}

func (f *fakeTable) Query(_ context.Context, in *ddb.QueryInput, _ ...func(*ddb.Options)) (*ddb.QueryOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["Query"]++

	if err := f.check(in.TableName); err != nil {
		return nil, err
	}
	if aws.ToString(in.KeyConditionExpression) != "#u = :u" || in.ExpressionAttributeNames["#u"] != attrUserName {
		return nil, errors.New("fake: unsupported key condition")
	}
	if !aws.ToBool(in.ConsistentRead) {
		return nil, errors.New("fake: expected consistent read")
	}
	want, _ := stringAttr(in.ExpressionAttributeValues, ":u")

	// Items come back in sort key order
	keys := make([]string, 0, len(f.items))
	for k, item := range f.items {
		if user, _ := stringAttr(item, attrUserName); user == want {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	out := &ddb.QueryOutput{}
	for _, k := range keys {
		out.Items = append(out.Items, maps.Clone(f.items[k]))
	}
	out.Count = int32(len(out.Items))
	return out, nil
}

// putAllowed checks a Put against the driver's only condition. Callers hold mu.
func (f *fakeTable) putAllowed(item map[string]types.AttributeValue, condition string) error {
	if err := f.checkItem(item); err != nil {
		return err
	}
	if condition == "attribute_not_exists(#u)" {
		if _, ok := f.items[f.storageKey(item)]; ok {
			return conditionFailed()
		}
	}
	return nil
}

func (f *fakeTable) PutItem(_ context.Context, in *ddb.PutItemInput, _ ...func(*ddb.Options)) (*ddb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["PutItem"]++

	if err := f.check(in.TableName); err != nil {
		return nil, err
	}
	if err := f.putAllowed(in.Item, aws.ToString(in.ConditionExpression)); err != nil {
		return nil, err
	}
	f.items[f.storageKey(in.Item)] = maps.Clone(in.Item)
	return &ddb.PutItemOutput{}, nil
}

func (f *fakeTable) TransactWriteItems(
	_ context.Context,
	in *ddb.TransactWriteItemsInput,
	_ ...func(*ddb.Options),
) (*ddb.TransactWriteItemsOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["TransactWriteItems"]++

	// Every condition is checked before anything is written
	reasons := make([]types.CancellationReason, len(in.TransactItems))
	cancelled := false
	for i, ti := range in.TransactItems {
		if ti.Put == nil {
			return nil, errors.New("fake: only Put is supported in transactions")
		}
		if err := f.check(ti.Put.TableName); err != nil {
			return nil, err
		}
		reasons[i].Code = aws.String("None")
		err := f.putAllowed(ti.Put.Item, aws.ToString(ti.Put.ConditionExpression))
		var ccf *types.ConditionalCheckFailedException
		switch {
		case err == nil:
		case errors.As(err, &ccf):
			reasons[i].Code = aws.String("ConditionalCheckFailed")
			cancelled = true
		default:
			return nil, err
		}
	}
	if cancelled {
		return nil, &types.TransactionCanceledException{
			Message:             aws.String("Transaction cancelled, please refer cancellation reasons for specific reasons"),
			CancellationReasons: reasons,
		}
	}

	for _, ti := range in.TransactItems {
		f.items[f.storageKey(ti.Put.Item)] = maps.Clone(ti.Put.Item)
	}
	return &ddb.TransactWriteItemsOutput{}, nil
}

func (f *fakeTable) UpdateItem(_ context.Context, in *ddb.UpdateItemInput, _ ...func(*ddb.Options)) (*ddb.UpdateItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["UpdateItem"]++

	if err := f.check(in.TableName); err != nil {
		return nil, err
	}
	if err := f.checkKey(in.Key); err != nil {
		return nil, err
	}

	key := f.storageKey(in.Key)
	item, ok := f.items[key]
	if aws.ToString(in.ConditionExpression) == "#mobile = :mobile" {
		want, _ := stringAttr(in.ExpressionAttributeValues, ":mobile")
		got, found := stringAttr(item, in.ExpressionAttributeNames["#mobile"])
		if !ok || !found || got != want {
			return nil, conditionFailed()
		}
	}
	if !ok {
		item = maps.Clone(in.Key)
	}

	expr := strings.TrimPrefix(aws.ToString(in.UpdateExpression), "SET ")
	for _, clause := range strings.Split(expr, ", ") {
		name, value, found := strings.Cut(clause, " = ")
		if !found {
			return nil, errors.New("fake: unsupported update expression " + clause)
		}
		item[in.ExpressionAttributeNames[name]] = in.ExpressionAttributeValues[value]
	}
	f.items[key] = item

	out := &ddb.UpdateItemOutput{}
	if in.ReturnValues == types.ReturnValueAllNew {
		out.Attributes = maps.Clone(item)
	}
	return out, nil
}

func (f *fakeTable) describe(name *string) *types.TableDescription {
	schema := f.keySchema
	if schema == nil {
		schema = []types.KeySchemaElement{{AttributeName: aws.String(attrUserName), KeyType: types.KeyTypeHash}}
		if f.sortKey != "" {
			schema = append(schema, types.KeySchemaElement{AttributeName: aws.String(f.sortKey), KeyType: types.KeyTypeRange})
		}
	}

	defs := make([]types.AttributeDefinition, 0, len(schema))
	for _, k := range schema {
		defs = append(defs, types.AttributeDefinition{AttributeName: k.AttributeName, AttributeType: types.ScalarAttributeTypeS})
	}

	return &types.TableDescription{
		TableName:            name,
		TableStatus:          types.TableStatusActive,
		KeySchema:            schema,
		AttributeDefinitions: defs,
	}
}

func (f *fakeTable) DescribeTable(_ context.Context, in *ddb.DescribeTableInput, _ ...func(*ddb.Options)) (*ddb.DescribeTableOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["DescribeTable"]++

	if err := f.check(in.TableName); err != nil {
		return nil, err
	}
	return &ddb.DescribeTableOutput{Table: f.describe(in.TableName)}, nil
}

func (f *fakeTable) CreateTable(_ context.Context, in *ddb.CreateTableInput, _ ...func(*ddb.Options)) (*ddb.CreateTableOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["CreateTable"]++

	if f.exists {
		return nil, &types.ResourceInUseException{Message: aws.String("Table already exists")}
	}
	f.name = aws.ToString(in.TableName)
	f.exists = true
	f.keySchema = in.KeySchema
	f.sortKey = ""
	for _, k := range in.KeySchema {
		if k.KeyType == types.KeyTypeRange {
			f.sortKey = aws.ToString(k.AttributeName)
		}
	}
	return &ddb.CreateTableOutput{TableDescription: f.describe(in.TableName)}, nil
}
