package dbhandler

import (
	"context"
	"log"

	"database/sql"

	"github.com/behrang/sqlbatch"
	"github.com/lib/pq"
)

const maxSerializationRetries = 3

// DBHandler wraps the database pool behind the batch interface.
type DBHandler struct {
	DB *sql.DB
}

// Batch runs the commands inside one transaction. A serialization failure
// restarts the whole batch, up to the retry cap.
func (handler DBHandler) Batch(opts *sql.TxOptions, commands []sqlbatch.Command) ([]interface{}, error) {

	var results []interface{}
	var err error

	for attempt := 0; attempt <= maxSerializationRetries; attempt++ {
		results, err = handler.tryBatch(opts, commands)
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "40001" {
			log.Printf("🟡 serialization failure, restarting batch - %v\n", err.Error())
			continue
		}
		break
	}

	return results, err
}

func (handler DBHandler) tryBatch(opts *sql.TxOptions, commands []sqlbatch.Command) (results []interface{}, err error) {

	results = make([]interface{}, len(commands))

	tx, err := handler.DB.BeginTx(context.Background(), opts)
	if err != nil {
		return
	}
	defer tx.Rollback()

	results, err = sqlbatch.Batch(tx, commands)

	if err == nil {
		err = tx.Commit()
	}

	return
}
