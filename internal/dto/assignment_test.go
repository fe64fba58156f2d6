package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTeacherIDsUnmarshal(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want TeacherIDs
	}{
		{"scalar becomes singleton", `"t1"`, TeacherIDs{"t1"}},
		{"list stays a list", `["t1","t2"]`, TeacherIDs{"t1", "t2"}},
		{"empty list stays empty", `[]`, TeacherIDs{}},
		{"null becomes empty", `null`, TeacherIDs{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var ids TeacherIDs
			require.NoError(t, json.Unmarshal([]byte(tc.in), &ids))
			assert.Equal(t, tc.want, ids)
		})
	}
}

func TestTeacherIDsUnmarshalRejectsOtherTypes(t *testing.T) {
	var ids TeacherIDs
	assert.Error(t, json.Unmarshal([]byte(`5`), &ids))
	assert.Error(t, json.Unmarshal([]byte(`{"id":"t1"}`), &ids))
}

func TestAssignRequestNullClearsWithoutPhantomID(t *testing.T) {
	var req AssignRequest
	require.NoError(t, json.Unmarshal([]byte(`{"assignments":{"s3":null}}`), &req))

	ids, ok := req.Assignments["s3"]
	require.True(t, ok)
	assert.Empty(t, ids)
	assert.NotContains(t, []string(ids), "")
}
