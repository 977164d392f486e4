package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog"

	"github.com/ErikSvetich/treeline-assistant/internal/model/chat"
)

// DynamoAPI is the subset of the DynamoDB client the store uses. Narrowed for
// fake injection in tests.
type DynamoAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// DynamoStore implements TranscriptStore on a DynamoDB table with partition
// key SessionID (string) and sort key Timestamp (number, ms since epoch).
type DynamoStore struct {
	client DynamoAPI
	table  string
	log    zerolog.Logger
}

// NewDynamoStore returns a store writing to the named table.
func NewDynamoStore(client DynamoAPI, table string, logger zerolog.Logger) *DynamoStore {
	return &DynamoStore{
		client: client,
		table:  table,
		log:    logger.With().Str("component", "store").Str("table", table).Logger(),
	}
}

// Append writes the turn as a new item. The conditional put makes a key
// collision fail loudly instead of silently replacing the earlier turn.
func (s *DynamoStore) Append(ctx context.Context, turn chat.Turn) error {
	item, err := attributevalue.MarshalMap(turn)
	if err != nil {
		return fmt.Errorf("store: marshal turn: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(SessionID)"),
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return fmt.Errorf("%w: session=%s timestamp=%d", ErrDuplicateTurn, turn.SessionID, turn.Timestamp)
		}
		return fmt.Errorf("store: put turn: %w", err)
	}

	s.log.Debug().
		Str("session", turn.SessionID).
		Int64("timestamp", turn.Timestamp).
		Str("role", turn.Role).
		Msg("turn persisted")
	return nil
}

// LoadHistory queries the session's partition. Sort-key order is ascending by
// default, which is the required turn order.
func (s *DynamoStore) LoadHistory(ctx context.Context, sessionID string) ([]chat.Turn, error) {
	out, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.table),
		KeyConditionExpression: aws.String("SessionID = :sid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":sid": &types.AttributeValueMemberS{Value: sessionID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("store: query history: %w", err)
	}

	turns := make([]chat.Turn, 0, len(out.Items))
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &turns); err != nil {
		return nil, fmt.Errorf("store: unmarshal history: %w", err)
	}
	return turns, nil
}
