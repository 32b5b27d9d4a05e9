package config

import (
	"reflect"
	"strings"
)

// GetSettingsExample uses reflection to generate example settings.
// It stays in sync automatically when fields are added to Settings.
func GetSettingsExample() map[string]any {
	t := reflect.TypeOf(Settings{})
	example := make(map[string]any)

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		jsonTag := field.Tag.Get("json")
		if jsonTag == "" {
			continue
		}

		jsonName := strings.Split(jsonTag, ",")[0]
		example[jsonName] = generateExampleValue(field.Type, jsonName)
	}

	return example
}

// generateExampleValue creates example values based on type and field name
func generateExampleValue(t reflect.Type, fieldName string) any {
	if t.Kind() == reflect.Ptr {
		switch t.Elem().Kind() {
		case reflect.Bool:
			return fieldName == "feasibility_enabled"
		case reflect.Int:
			switch fieldName {
			case "max_log_files":
				return 200
			case "reminder_days":
				return DefaultReminderDays
			case "deadline_window_days":
				return DefaultDeadlineWindowDays
			}
			return 10
		}
	}

	if t.Kind() == reflect.String {
		switch fieldName {
		case "backend":
			return DefaultBackend
		case "default_category":
			return "Other"
		case "postgres_dsn":
			return "host=localhost user=flagkeeper dbname=flagkeeper sslmode=disable"
		case "redis_addr":
			return "localhost:6379"
		case "status_policy":
			return "progress"
		case "storage_key":
			return DefaultStorageKey
		default:
			return "example"
		}
	}

	return nil
}
