package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/accounts/internal/accounts/domain"
	"github.com/aussiebroadwan/accounts/internal/accounts/store"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	ddb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Attribute names match tables written by earlier deployments.
const (
	attrUserName     = "UserName"
	attrPassword     = "Password"
	attrName         = "Name"
	attrRole         = "Role"
	attrMobileNumber = "MobileNumber"
	attrUpdatedAt    = "updatedAt"
)

// usernameClaim is the MobileNumber sort key of the item that reserves a
// username in a composite-key table. It is never a user record.
const usernameClaim = "#username"

type userItem struct {
	ID           string `dynamodbav:"id"`
	UserName     string `dynamodbav:"UserName"`
	Password     string `dynamodbav:"Password"`
	Name         string `dynamodbav:"Name"`
	Role         string `dynamodbav:"Role"`
	MobileNumber string `dynamodbav:"MobileNumber"`
	CreatedAt    string `dynamodbav:"createdAt"`
	UpdatedAt    string `dynamodbav:"updatedAt,omitempty"`
}

func toItem(u domain.User) userItem {
	return userItem{
		ID:           u.ID,
		UserName:     u.Username,
		Password:     u.PasswordHash,
		Name:         u.Name,
		Role:         u.Role,
		MobileNumber: u.MobileNumber,
		CreatedAt:    formatTime(u.CreatedAt),
		UpdatedAt:    formatTime(u.UpdatedAt),
	}
}

func (it userItem) user() (domain.User, error) {
	u := domain.User{
		ID:           it.ID,
		Username:     it.UserName,
		PasswordHash: it.Password,
		Name:         it.Name,
		Role:         it.Role,
		MobileNumber: it.MobileNumber,
	}

	var err error
	if it.CreatedAt != "" {
		if u.CreatedAt, err = time.Parse(time.RFC3339Nano, it.CreatedAt); err != nil {
			return domain.User{}, fmt.Errorf("dynamodb: createdAt: %w", err)
		}
	}
	u.UpdatedAt = u.CreatedAt
	if it.UpdatedAt != "" {
		if u.UpdatedAt, err = time.Parse(time.RFC3339Nano, it.UpdatedAt); err != nil {
			return domain.User{}, fmt.Errorf("dynamodb: updatedAt: %w", err)
		}
	}
	return u, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func decodeUser(av map[string]types.AttributeValue) (domain.User, error) {
	var it userItem
	if err := attributevalue.UnmarshalMap(av, &it); err != nil {
		return domain.User{}, fmt.Errorf("dynamodb: decode user: %w", err)
	}
	return it.user()
}

func isConditionFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}

// isTransactConditionFailed reports whether a transaction was cancelled by a
// failed condition rather than by throttling or a conflict.
func isTransactConditionFailed(err error) bool {
	var tce *types.TransactionCanceledException
	if !errors.As(err, &tce) {
		return false
	}
	for _, reason := range tce.CancellationReasons {
		if aws.ToString(reason.Code) == "ConditionalCheckFailed" {
			return true
		}
	}
	return false
}

func isClaim(item map[string]types.AttributeValue) bool {
	m, ok := item[attrMobileNumber].(*types.AttributeValueMemberS)
	return ok && m.Value == usernameClaim
}

type usersRepo struct {
	client API
	table  string
	layout keyLayout
}

// key addresses one item. mobile is ignored for UserName-only tables.
func (r *usersRepo) key(username, mobile string) map[string]types.AttributeValue {
	key := map[string]types.AttributeValue{
		attrUserName: &types.AttributeValueMemberS{Value: username},
	}
	if r.layout == layoutComposite {
		key[attrMobileNumber] = &types.AttributeValueMemberS{Value: mobile}
	}
	return key
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	if r.layout == layoutComposite {
		return r.queryUser(ctx, username)
	}

	out, err := r.client.GetItem(ctx, &ddb.GetItemInput{
		TableName:      aws.String(r.table),
		Key:            r.key(username, ""),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("dynamodb: get user: %w", err)
	}
	if len(out.Item) == 0 {
		return domain.User{}, store.ErrNotFound
	}
	return decodeUser(out.Item)
}

// queryUser reads the partition for username and returns its first user
// record. A partition holds the claim item and, for rows written before
// claims existed, possibly more than one user, so no Limit is set.
func (r *usersRepo) queryUser(ctx context.Context, username string) (domain.User, error) {
	out, err := r.client.Query(ctx, &ddb.QueryInput{
		TableName:                aws.String(r.table),
		KeyConditionExpression:   aws.String("#u = :u"),
		ExpressionAttributeNames: map[string]string{"#u": attrUserName},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":u": &types.AttributeValueMemberS{Value: username},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("dynamodb: query user: %w", err)
	}
	for _, item := range out.Items {
		if isClaim(item) {
			continue
		}
		return decodeUser(item)
	}
	return domain.User{}, store.ErrNotFound
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	if err := store.ValidateNewUser(u); err != nil {
		return err
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = u.CreatedAt
	}

	av, err := attributevalue.MarshalMap(toItem(u))
	if err != nil {
		return fmt.Errorf("dynamodb: encode user: %w", err)
	}

	if r.layout == layoutComposite {
		return r.createComposite(ctx, u, av)
	}

	_, err = r.client.PutItem(ctx, &ddb.PutItemInput{
		TableName:                aws.String(r.table),
		Item:                     av,
		ConditionExpression:      aws.String("attribute_not_exists(#u)"),
		ExpressionAttributeNames: map[string]string{"#u": attrUserName},
	})
	switch {
	case err == nil:
		return nil
	case isConditionFailed(err):
		return store.ErrAlreadyExists
	default:
		return fmt.Errorf("dynamodb: put user: %w", err)
	}
}

// createComposite writes the user together with a claim item keyed
// (UserName, usernameClaim) in one transaction. The sort key is part of the
// item key, so a plain conditional put would only stop a second row with the
// same mobile number; the shared claim item stops every second registration.
func (r *usersRepo) createComposite(ctx context.Context, u domain.User, av map[string]types.AttributeValue) error {
	if u.MobileNumber == usernameClaim {
		return fmt.Errorf("%w: mobile number %q is reserved", store.ErrInvalidRecord, usernameClaim)
	}

	// Users written before claims existed have no claim item
	_, err := r.queryUser(ctx, u.Username)
	switch {
	case err == nil:
		return store.ErrAlreadyExists
	case !errors.Is(err, store.ErrNotFound):
		return err
	}

	claim := r.key(u.Username, usernameClaim)
	claim["id"] = &types.AttributeValueMemberS{Value: u.ID}

	notExists := func(item map[string]types.AttributeValue) types.TransactWriteItem {
		return types.TransactWriteItem{Put: &types.Put{
			TableName:                aws.String(r.table),
			Item:                     item,
			ConditionExpression:      aws.String("attribute_not_exists(#u)"),
			ExpressionAttributeNames: map[string]string{"#u": attrUserName},
		}}
	}

	_, err = r.client.TransactWriteItems(ctx, &ddb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{notExists(claim), notExists(av)},
	})
	switch {
	case err == nil:
		return nil
	case isTransactConditionFailed(err):
		return store.ErrAlreadyExists
	default:
		return fmt.Errorf("dynamodb: put user: %w", err)
	}
}

func (r *usersRepo) UpdateUser(
	ctx context.Context,
	username, mobile string,
	patch domain.UserPatch,
) (domain.User, error) {
	if err := store.ValidatePatch(patch); err != nil {
		return domain.User{}, err
	}
	if r.layout == layoutComposite && mobile == usernameClaim {
		return domain.User{}, store.ErrNotFound
	}
	if patch.IsEmpty() {
		u, err := r.GetUserByUsername(ctx, username)
		if err != nil {
			return domain.User{}, err
		}
		if u.MobileNumber != mobile {
			return domain.User{}, store.ErrNotFound
		}
		return u, nil
	}

	names := map[string]string{
		"#mobile":  attrMobileNumber,
		"#updated": attrUpdatedAt,
	}
	values := map[string]types.AttributeValue{
		":mobile":  &types.AttributeValueMemberS{Value: mobile},
		":updated": &types.AttributeValueMemberS{Value: formatTime(time.Now())},
	}
	sets := make([]string, 0, 4)

	set := func(placeholder, attr, value string) {
		names["#"+placeholder] = attr
		values[":"+placeholder] = &types.AttributeValueMemberS{Value: value}
		sets = append(sets, "#"+placeholder+" = :"+placeholder)
	}
	if patch.Name != nil {
		set("name", attrName, *patch.Name)
	}
	if patch.Role != nil {
		set("role", attrRole, *patch.Role)
	}
	if patch.PasswordHash != nil {
		set("password", attrPassword, *patch.PasswordHash)
	}
	sets = append(sets, "#updated = :updated")

	// A missing item has no MobileNumber, so the condition also fails for it
	out, err := r.client.UpdateItem(ctx, &ddb.UpdateItemInput{
		TableName:                 aws.String(r.table),
		Key:                       r.key(username, mobile),
		UpdateExpression:          aws.String("SET " + strings.Join(sets, ", ")),
		ConditionExpression:       aws.String("#mobile = :mobile"),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		ReturnValues:              types.ReturnValueAllNew,
	})
	switch {
	case err == nil:
		return decodeUser(out.Attributes)
	case isConditionFailed(err):
		return domain.User{}, store.ErrNotFound
	default:
		return domain.User{}, fmt.Errorf("dynamodb: update user: %w", err)
	}
}
