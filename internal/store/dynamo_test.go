package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ErikSvetich/treeline-assistant/internal/model/chat"
	"github.com/ErikSvetich/treeline-assistant/internal/store"
)

type fakeDynamo struct {
	putInput   *dynamodb.PutItemInput
	putErr     error
	queryInput *dynamodb.QueryInput
	queryOut   *dynamodb.QueryOutput
	queryErr   error
}

func (f *fakeDynamo) PutItem(_ context.Context, params *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.putInput = params
	if f.putErr != nil {
		return nil, f.putErr
	}
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) Query(_ context.Context, params *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.queryInput = params
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.queryOut, nil
}

func TestDynamoStoreAppendWritesConditionalItem(t *testing.T) {
	fake := &fakeDynamo{}
	s := store.NewDynamoStore(fake, "TreelineMemory", zerolog.Nop())

	turn := chat.Turn{
		SessionID: "sess-1",
		Timestamp: 1700000000123,
		Role:      chat.RoleModel,
		Content:   "a double jump with coyote time",
		Persona:   "Indie Game Dev",
	}
	require.NoError(t, s.Append(context.Background(), turn))

	require.NotNil(t, fake.putInput)
	assert.Equal(t, "TreelineMemory", *fake.putInput.TableName)
	assert.Equal(t, "attribute_not_exists(SessionID)", *fake.putInput.ConditionExpression)

	var got chat.Turn
	require.NoError(t, attributevalue.UnmarshalMap(fake.putInput.Item, &got))
	assert.Equal(t, turn, got)
}

func TestDynamoStoreAppendDuplicateKey(t *testing.T) {
	fake := &fakeDynamo{putErr: &types.ConditionalCheckFailedException{}}
	s := store.NewDynamoStore(fake, "TreelineMemory", zerolog.Nop())

	err := s.Append(context.Background(), chat.Turn{SessionID: "sess-1", Timestamp: 1})
	require.ErrorIs(t, err, store.ErrDuplicateTurn)
}

func TestDynamoStoreAppendBackendFailure(t *testing.T) {
	fake := &fakeDynamo{putErr: errors.New("throttled")}
	s := store.NewDynamoStore(fake, "TreelineMemory", zerolog.Nop())

	err := s.Append(context.Background(), chat.Turn{SessionID: "sess-1", Timestamp: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
}

func TestDynamoStoreLoadHistory(t *testing.T) {
	turns := []chat.Turn{
		{SessionID: "sess-1", Timestamp: 10, Role: chat.RoleUser, Content: "hi", Persona: "Indie Game Dev"},
		{SessionID: "sess-1", Timestamp: 20, Role: chat.RoleModel, Content: "hello", Persona: "Indie Game Dev"},
	}
	items := make([]map[string]types.AttributeValue, 0, len(turns))
	for _, turn := range turns {
		item, err := attributevalue.MarshalMap(turn)
		require.NoError(t, err)
		items = append(items, item)
	}

	fake := &fakeDynamo{queryOut: &dynamodb.QueryOutput{Items: items}}
	s := store.NewDynamoStore(fake, "TreelineMemory", zerolog.Nop())

	got, err := s.LoadHistory(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, turns, got)

	require.NotNil(t, fake.queryInput)
	assert.Equal(t, "SessionID = :sid", *fake.queryInput.KeyConditionExpression)
	sid, ok := fake.queryInput.ExpressionAttributeValues[":sid"].(*types.AttributeValueMemberS)
	require.True(t, ok)
	assert.Equal(t, "sess-1", sid.Value)
}

func TestDynamoStoreLoadHistoryBackendFailure(t *testing.T) {
	fake := &fakeDynamo{queryErr: errors.New("endpoint unreachable")}
	s := store.NewDynamoStore(fake, "TreelineMemory", zerolog.Nop())

	_, err := s.LoadHistory(context.Background(), "sess-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "endpoint unreachable")
}
