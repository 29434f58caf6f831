package repository

import (
	"sender/domain"
	"time"

	"github.com/behrang/sqlbatch"
)

const (
	sqlReceiptInsert = `
	insert into receipts (
			address, amount, boc, create_time
		)
		values (
			$1, $2, $3, $4
		)
`

	sqlReceiptFindRecent = `
	select
		address, amount, boc, create_time
	from receipts
	order by create_time desc
	limit $1
`

	sqlReceiptFindByAddress = `
	select
		address, amount, boc, create_time
	from receipts
	where address = $1
	order by create_time desc
`
)

// ReceiptRepository keeps a trace of every broadcast transfer.
type ReceiptRepository struct {
	batchHandler BatchHandler
}

func NewReceiptRepository(db BatchHandler) *ReceiptRepository {
	return &ReceiptRepository{batchHandler: db}
}

func readAllReceipts(memo interface{}, scan func(...interface{}) error) (interface{}, error) {
	r := domain.Receipt{}
	err := scan(
		&r.Address, &r.Amount, &r.Boc, &r.CreateTime,
	)

	list := memo.([]domain.Receipt)
	list = append(list, r)
	return list, err
}

func (repo *ReceiptRepository) Record(receipt domain.Receipt) error {
	createTime := receipt.CreateTime
	if createTime.IsZero() {
		createTime = time.Now()
	}

	_, err := repo.batchHandler.Batch(&BatchOptionNormal, []sqlbatch.Command{
		{
			Query: sqlReceiptInsert,
			Args: []interface{}{
				receipt.Address, receipt.Amount, receipt.Boc, createTime,
			},
			Affect: 1,
		},
	})
	return err
}

func (repo *ReceiptRepository) FindRecent(limit int) ([]domain.Receipt, error) {
	results, err := repo.batchHandler.Batch(&BatchOptionNormalReadOnly, []sqlbatch.Command{
		{
			Query:   sqlReceiptFindRecent,
			Args:    []interface{}{limit},
			Init:    make([]domain.Receipt, 0),
			ReadAll: readAllReceipts,
		},
	})
	result, _ := results[0].([]domain.Receipt)
	return result, err
}

func (repo *ReceiptRepository) FindByAddress(address string) ([]domain.Receipt, error) {
	results, err := repo.batchHandler.Batch(&BatchOptionNormalReadOnly, []sqlbatch.Command{
		{
			Query:   sqlReceiptFindByAddress,
			Args:    []interface{}{address},
			Init:    make([]domain.Receipt, 0),
			ReadAll: readAllReceipts,
		},
	})
	result, _ := results[0].([]domain.Receipt)
	return result, err
}
