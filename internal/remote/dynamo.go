// internal/remote/dynamo.go
package remote

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"

	"shoplite-agent/internal/config"
	"shoplite-agent/internal/utils"
)

// transactLimit is the DynamoDB TransactWriteItems hard cap. Batches larger
// than this are committed in chunks; each chunk is atomic on its own.
const transactLimit = 100

// DynamoStore implements Store on a single DynamoDB table: the partition
// key is the collection path (users/{principal}/{collection}) and the sort
// key is the document id, so ListAll is one partition query.
type DynamoStore struct {
	client *dynamodb.DynamoDB
	table  string
}

func NewDynamoStore(cfg *config.Config) (*DynamoStore, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.AWS.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AWS.AccessKeyID,
			cfg.AWS.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &DynamoStore{
		client: dynamodb.New(sess),
		table:  cfg.AWS.DynamoTable,
	}, nil
}

func (d *DynamoStore) ListAll(ctx context.Context, collectionPath string) ([]Document, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(d.table),
		KeyConditionExpression: aws.String("pk = :pk"),
		ExpressionAttributeValues: map[string]*dynamodb.AttributeValue{
			":pk": {S: aws.String(collectionPath)},
		},
	}

	var docs []Document
	var pageErr error
	err := d.client.QueryPagesWithContext(ctx, input, func(page *dynamodb.QueryOutput, lastPage bool) bool {
		for _, item := range page.Items {
			doc, err := itemToDocument(item)
			if err != nil {
				pageErr = err
				return false
			}
			docs = append(docs, doc)
		}
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", collectionPath, err)
	}
	if pageErr != nil {
		return nil, fmt.Errorf("query %s: %w", collectionPath, pageErr)
	}
	return docs, nil
}

func (d *DynamoStore) BatchUpsert(ctx context.Context, collectionPath string, docs []Document) error {
	for start := 0; start < len(docs); start += transactLimit {
		end := start + transactLimit
		if end > len(docs) {
			end = len(docs)
		}

		items := make([]*dynamodb.TransactWriteItem, 0, end-start)
		for _, doc := range docs[start:end] {
			item, err := documentToItem(collectionPath, doc)
			if err != nil {
				return err
			}
			items = append(items, &dynamodb.TransactWriteItem{
				Put: &dynamodb.Put{
					TableName: aws.String(d.table),
					Item:      item,
				},
			})
		}

		_, err := d.client.TransactWriteItemsWithContext(ctx, &dynamodb.TransactWriteItemsInput{
			TransactItems: items,
		})
		if err != nil {
			return fmt.Errorf("batch upsert %s: %w", collectionPath, err)
		}
	}
	return nil
}

func (d *DynamoStore) Get(ctx context.Context, docPath string) (utils.Fields, bool, error) {
	collectionPath, id := splitDocPath(docPath)

	out, err := d.client.GetItemWithContext(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(d.table),
		Key:            itemKey(collectionPath, id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", docPath, err)
	}
	if out.Item == nil {
		return nil, false, nil
	}

	doc, err := itemToDocument(out.Item)
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", docPath, err)
	}
	return doc.Fields, true, nil
}

func (d *DynamoStore) Set(ctx context.Context, docPath string, fields utils.Fields, merge bool) error {
	collectionPath, id := splitDocPath(docPath)

	if merge {
		existing, found, err := d.Get(ctx, docPath)
		if err != nil {
			return err
		}
		if found {
			merged := make(utils.Fields, len(existing)+len(fields))
			for k, v := range existing {
				merged[k] = v
			}
			for k, v := range fields {
				merged[k] = v
			}
			fields = merged
		}
	}

	item, err := documentToItem(collectionPath, Document{ID: id, Fields: fields})
	if err != nil {
		return err
	}

	_, err = d.client.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(d.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("set %s: %w", docPath, err)
	}
	return nil
}

func (d *DynamoStore) Delete(ctx context.Context, docPath string) error {
	collectionPath, id := splitDocPath(docPath)

	_, err := d.client.DeleteItemWithContext(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(d.table),
		Key:       itemKey(collectionPath, id),
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", docPath, err)
	}
	return nil
}

func itemKey(collectionPath, id string) map[string]*dynamodb.AttributeValue {
	return map[string]*dynamodb.AttributeValue{
		"pk": {S: aws.String(collectionPath)},
		"sk": {S: aws.String(id)},
	}
}

func documentToItem(collectionPath string, doc Document) (map[string]*dynamodb.AttributeValue, error) {
	docAttr, err := dynamodbattribute.Marshal(map[string]interface{}(doc.Fields))
	if err != nil {
		return nil, fmt.Errorf("marshal document %s: %w", doc.ID, err)
	}

	item := itemKey(collectionPath, doc.ID)
	item["doc"] = docAttr
	return item, nil
}

func itemToDocument(item map[string]*dynamodb.AttributeValue) (Document, error) {
	var doc Document
	if sk := item["sk"]; sk != nil && sk.S != nil {
		doc.ID = *sk.S
	}

	var fields utils.Fields
	if docAttr := item["doc"]; docAttr != nil {
		if err := dynamodbattribute.Unmarshal(docAttr, &fields); err != nil {
			return Document{}, fmt.Errorf("unmarshal document %s: %w", doc.ID, err)
		}
	}
	doc.Fields = fields
	return doc, nil
}
