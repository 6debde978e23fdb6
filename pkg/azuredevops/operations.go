package azuredevops

// OperationType is a JSON patch operation
type OperationType string

// JSON patch operations
const (
	OperationAdd     OperationType = "add"
	OperationCopy    OperationType = "copy"
	OperationMove    OperationType = "move"
	OperationRemove  OperationType = "remove"
	OperationReplace OperationType = "replace"
	OperationTest    OperationType = "test"
)

// PatchOperation is a single JSON patch operation. From is only used by copy and move.
type PatchOperation struct {
	Operation OperationType `json:"op"`
	Path      string        `json:"path"`
	Value     interface{}   `json:"value"`
	From      *string       `json:"from"`
}

// AddOperation returns an add operation for path
func AddOperation(path string, value interface{}) PatchOperation {
	return PatchOperation{Operation: OperationAdd, Path: path, Value: value}
}

// ReplaceOperation returns a replace operation for path
func ReplaceOperation(path string, value interface{}) PatchOperation {
	return PatchOperation{Operation: OperationReplace, Path: path, Value: value}
}

// RemoveOperation returns a remove operation for path
func RemoveOperation(path string) PatchOperation {
	return PatchOperation{Operation: OperationRemove, Path: path}
}
