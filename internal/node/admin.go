package node

import (
	"context"
	"fmt"

	"github.com/iudanet/isync/internal/models"
	"github.com/iudanet/isync/internal/validation"
)

// Records возвращает полный снимок хранилища записей
func (n *Node) Records(ctx context.Context) (models.Snapshot, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	snapshot, err := n.records.GetRawData(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read records: %w", err)
	}
	return snapshot, nil
}

// SetField записывает значение поля записи. Для синхронизируемых путей
// значение сразу попадает в состояние синхронизации.
// Поле с tombstone не записывается (ErrFieldDeleted).
func (n *Node) SetField(ctx context.Context, table, recordID, field string, value models.Value) error {
	if err := validateFieldPath(table, recordID, field); err != nil {
		return err
	}
	if err := value.Validate(); err != nil {
		return err
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	path, synced := n.syncPath(table, recordID, field)
	if synced && n.state.IsDeleted(path) {
		return fmt.Errorf("%w: %s", ErrFieldDeleted, path)
	}

	snapshot, err := n.records.GetRawData(ctx)
	if err != nil {
		return fmt.Errorf("failed to read records: %w", err)
	}

	backup, err := n.cloneState()
	if err != nil {
		return err
	}

	tbl := snapshot[table]
	if tbl == nil {
		tbl = make(models.Table)
		snapshot[table] = tbl
	}
	rec := tbl[recordID]
	if rec == nil {
		rec = models.Record{models.RecordIDField: models.String(recordID)}
		tbl[recordID] = rec
	}
	rec[field] = value

	out := snapshot
	if synced {
		n.state.SetValue(path, value)
		out = n.projector.ProjectBack(n.state, snapshot)
	}

	if err := n.records.SetRawData(ctx, out); err != nil {
		n.state = backup
		return fmt.Errorf("failed to write records: %w", err)
	}

	n.logger.Info("Field updated", "table", table, "record_id", recordID, "field", field, "synced", synced)
	return nil
}

// DeleteField удаляет поле записи. Для синхронизируемых путей ставится tombstone,
// и удаление распространяется на все узлы.
func (n *Node) DeleteField(ctx context.Context, table, recordID, field string) error {
	if err := validateFieldPath(table, recordID, field); err != nil {
		return err
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	snapshot, err := n.records.GetRawData(ctx)
	if err != nil {
		return fmt.Errorf("failed to read records: %w", err)
	}

	path, synced := n.syncPath(table, recordID, field)

	inStore := false
	if rec, ok := snapshot[table][recordID]; ok {
		_, inStore = rec[field]
	}
	inState := false
	if synced {
		_, inState = n.state.GetValue(path)
	}
	if !inStore && !inState {
		return fmt.Errorf("%w: %s.%s.%s", ErrFieldNotFound, table, recordID, field)
	}

	backup, err := n.cloneState()
	if err != nil {
		return err
	}

	if inStore {
		delete(snapshot[table][recordID], field)
	}

	out := snapshot
	if synced {
		n.state.DeleteKey(path)
		out = n.projector.ProjectBack(n.state, snapshot)
	}

	if err := n.records.SetRawData(ctx, out); err != nil {
		n.state = backup
		return fmt.Errorf("failed to write records: %w", err)
	}

	n.logger.Info("Field deleted", "table", table, "record_id", recordID, "field", field, "synced", synced)
	return nil
}

// syncPath возвращает путь поля и признак того, что поле синхронизируется
func (n *Node) syncPath(table, recordID, field string) (string, bool) {
	if table != n.projector.Filter().Table {
		return "", false
	}
	path := n.projector.Path(recordID, field)
	return path, n.projector.ShouldSync(path)
}

func validateFieldPath(table, recordID, field string) error {
	if err := validation.ValidateTableName(table); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidField, err)
	}
	if err := validation.ValidateRecordID(recordID); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidField, err)
	}
	if err := validation.ValidateFieldName(field); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidField, err)
	}
	return nil
}
