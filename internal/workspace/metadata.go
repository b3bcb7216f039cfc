package workspace

// MetadataFile is the name of the metadata document inside each workspace.
const MetadataFile = ".roy-metadata.json"

// StageInitialization is the workflow stage of a freshly created workspace.
const StageInitialization = "initialization"

// Subdirectories are created in every workspace, relative to its root.
var Subdirectories = []string{
	"artifacts/documents",
	"artifacts/code",
	"artifacts/data",
	"checkpoints",
}

// Metadata is the document written when a workspace is created. Later
// updates may add arbitrary keys, so reads return a Document instead.
type Metadata struct {
	TaskID          string        `json:"task_id"`
	DirectoryName   string        `json:"directory_name"`
	WorkspacePath   string        `json:"workspace_path"`
	CreatedAt       string        `json:"created_at"`
	TaskTitle       string        `json:"task_title"`
	TaskDescription string        `json:"task_description"`
	WorkflowState   WorkflowState `json:"workflow_state"`
	UnitOfWorkLog   []any         `json:"unit_of_work_log"`
	Artifacts       Artifacts     `json:"artifacts"`
	Checkpoints     []any         `json:"checkpoints"`
}

type WorkflowState struct {
	CurrentStage   string   `json:"current_stage"`
	StageProgress  int      `json:"stage_progress"`
	LastUpdated    string   `json:"last_updated"`
	AssignedAgents []string `json:"assigned_agents"`
	PendingActions []any    `json:"pending_actions"`
}

type Artifacts struct {
	Documents []string `json:"documents"`
	Code      []string `json:"code"`
	Data      []string `json:"data"`
}

func newMetadata(taskID, name, path, title, description, now string) *Metadata {
	return &Metadata{
		TaskID:          taskID,
		DirectoryName:   name,
		WorkspacePath:   path,
		CreatedAt:       now,
		TaskTitle:       title,
		TaskDescription: description,
		WorkflowState: WorkflowState{
			CurrentStage:   StageInitialization,
			StageProgress:  0,
			LastUpdated:    now,
			AssignedAgents: []string{},
			PendingActions: []any{},
		},
		UnitOfWorkLog: []any{},
		Artifacts: Artifacts{
			Documents: []string{},
			Code:      []string{},
			Data:      []string{},
		},
		Checkpoints: []any{},
	}
}
