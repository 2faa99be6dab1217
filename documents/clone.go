package documents

import "time"

func cloneMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	out := make(map[string]any, len(src))
	for key, value := range src {
		switch typed := value.(type) {
		case map[string]any:
			out[key] = cloneMap(typed)
		case []any:
			copied := make([]any, len(typed))
			copy(copied, typed)
			out[key] = copied
		default:
			out[key] = value
		}
	}
	return out
}

func cloneTimePtr(src *time.Time) *time.Time {
	if src == nil {
		return nil
	}
	copied := *src
	return &copied
}

func cloneStringPtr(src *string) *string {
	if src == nil {
		return nil
	}
	copied := *src
	return &copied
}

func cloneUUIDPtr[T comparable](src *T) *T {
	if src == nil {
		return nil
	}
	copied := *src
	return &copied
}

func cloneEdition(src *Edition) *Edition {
	if src == nil {
		return nil
	}
	copied := *src
	copied.Details = cloneMap(src.Details)
	copied.ScheduledPublication = cloneTimePtr(src.ScheduledPublication)
	copied.ChangeNote = cloneStringPtr(src.ChangeNote)
	copied.InternalChangeNote = cloneStringPtr(src.InternalChangeNote)
	copied.Document = nil
	return &copied
}

func cloneDocument(src *Document) *Document {
	if src == nil {
		return nil
	}
	copied := *src
	copied.LatestEditionID = cloneUUIDPtr(src.LatestEditionID)
	copied.LiveEditionID = cloneUUIDPtr(src.LiveEditionID)
	copied.Editions = nil
	copied.LatestEdition = nil
	copied.LiveEdition = nil
	return &copied
}
