package tabular

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/storeform/storesync"
)

// DynamoDB schema constants for single-table design: every logical table of
// the tabular contract lives under its own partition.
const (
	AttrPK = "PK"
	AttrSK = "SK"
)

// Logical table keys: PK=TABLE#{table}, SK=ROW#{id}
func logicalTablePK(table string) string {
	return fmt.Sprintf("TABLE#%s", table)
}

func rowSK(id string) string {
	return fmt.Sprintf("ROW#%s", id)
}

// DynamoStore implements storesync.TableClient on AWS DynamoDB, for
// deployments that own the tabular data instead of reaching a remote HTTP
// store. Selector evaluation happens client-side after a partition query;
// the data sets per store are small enough for that to be acceptable.
type DynamoStore struct {
	client    DynamoDBAPI
	tableName string
}

// NewDynamoStore creates a DynamoDB-backed tabular store over one physical
// table.
func NewDynamoStore(client DynamoDBAPI, tableName string) *DynamoStore {
	return &DynamoStore{
		client:    client,
		tableName: tableName,
	}
}

// Find returns the rows of the logical table matching the selector.
func (s *DynamoStore) Find(ctx context.Context, table, selector string) ([]storesync.Row, error) {
	sel, err := parseSelector(selector)
	if err != nil {
		return nil, storesync.NewRemoteCallError(table, storesync.ActionFind, 0, err.Error())
	}

	matched := []storesync.Row{}
	var lastEvaluatedKey map[string]types.AttributeValue

	// Paginate through the logical table's partition
	for {
		queryInput := &dynamodb.QueryInput{
			TableName:              aws.String(s.tableName),
			KeyConditionExpression: aws.String("PK = :pk"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":pk": &types.AttributeValueMemberS{Value: logicalTablePK(table)},
			},
		}
		if lastEvaluatedKey != nil {
			queryInput.ExclusiveStartKey = lastEvaluatedKey
		}

		result, err := s.client.Query(ctx, queryInput)
		if err != nil {
			return nil, storesync.NewRemoteCallError(table, storesync.ActionFind, 0, err.Error())
		}

		for _, item := range result.Items {
			row, err := rowFromItem(item)
			if err != nil {
				return nil, fmt.Errorf("failed to unmarshal %s row: %w", table, err)
			}
			if sel.matches(row) {
				matched = append(matched, row)
			}
		}

		if result.LastEvaluatedKey == nil {
			break
		}
		lastEvaluatedKey = result.LastEvaluatedKey
	}

	return matched, nil
}

// Add inserts rows, assigning a fresh key to any row missing one.
func (s *DynamoStore) Add(ctx context.Context, table string, rows []storesync.Row) ([]storesync.Row, error) {
	key := storesync.KeyColumn(table)

	added := make([]storesync.Row, 0, len(rows))
	for _, row := range rows {
		stored := row.Clone()
		if valueString(stored[key]) == "" {
			stored[key] = uuid.NewString()
		}

		if err := s.putRow(ctx, table, valueString(stored[key]), stored); err != nil {
			return nil, storesync.NewRemoteCallError(table, storesync.ActionAdd, 0, err.Error())
		}
		added = append(added, stored)
	}
	return added, nil
}

// Edit replaces stored rows by primary key.
func (s *DynamoStore) Edit(ctx context.Context, table string, rows []storesync.Row) (storesync.Row, error) {
	key := storesync.KeyColumn(table)

	var last storesync.Row
	for _, row := range rows {
		id := valueString(row[key])
		if id == "" {
			return nil, storesync.NewRemoteCallError(table, storesync.ActionEdit, 0,
				"edit requires the "+key+" column")
		}

		if err := s.putRow(ctx, table, id, row); err != nil {
			return nil, storesync.NewRemoteCallError(table, storesync.ActionEdit, 0, err.Error())
		}
		last = row.Clone()
	}
	return last, nil
}

// Delete removes the rows identified by the key rows.
func (s *DynamoStore) Delete(ctx context.Context, table string, keys []storesync.Row) (storesync.Row, error) {
	key := storesync.KeyColumn(table)

	deleted := 0
	for _, keyRow := range keys {
		id := valueString(keyRow[key])
		if id == "" {
			return nil, storesync.NewRemoteCallError(table, storesync.ActionDelete, 0,
				"delete requires the "+key+" column")
		}

		_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
			TableName: aws.String(s.tableName),
			Key: map[string]types.AttributeValue{
				AttrPK: &types.AttributeValueMemberS{Value: logicalTablePK(table)},
				AttrSK: &types.AttributeValueMemberS{Value: rowSK(id)},
			},
		})
		if err != nil {
			return nil, storesync.NewRemoteCallError(table, storesync.ActionDelete, 0, err.Error())
		}
		deleted++
	}
	return storesync.Row{"Deleted": deleted}, nil
}

// DispatchBatch executes the requests in parallel and waits for all.
func (s *DynamoStore) DispatchBatch(ctx context.Context, reqs []storesync.BatchRequest) []storesync.BatchResult {
	return dispatchBatch(ctx, s, reqs)
}

func (s *DynamoStore) putRow(ctx context.Context, table, id string, row storesync.Row) error {
	item, err := attributevalue.MarshalMap(map[string]any(row))
	if err != nil {
		return fmt.Errorf("failed to marshal row: %w", err)
	}

	item[AttrPK] = &types.AttributeValueMemberS{Value: logicalTablePK(table)}
	item[AttrSK] = &types.AttributeValueMemberS{Value: rowSK(id)}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	})
	return err
}

func rowFromItem(item map[string]types.AttributeValue) (storesync.Row, error) {
	var row map[string]any
	if err := attributevalue.UnmarshalMap(item, &row); err != nil {
		return nil, err
	}
	delete(row, AttrPK)
	delete(row, AttrSK)
	return storesync.Row(row), nil
}
