package viz

import (
	"fmt"
	"strings"

	"github.com/san-kum/attitude/internal/rotation"
)

func FormatQuaternion(q rotation.UnitQuaternion) string {
	v := q.AsVector()
	lines := []string{
		KeyValue("w", fmt.Sprintf("%+.6f", v[0]), 3),
		KeyValue("x", fmt.Sprintf("%+.6f", v[1]), 3),
		KeyValue("y", fmt.Sprintf("%+.6f", v[2]), 3),
		KeyValue("z", fmt.Sprintf("%+.6f", v[3]), 3),
		KeyValue("|q|", fmt.Sprintf("%.12f", q.Norm()), 4),
	}
	return TitledPanel("quaternion", strings.Join(lines, "\n"))
}

// FormatEuler prints roll, pitch and yaw in unit.
func FormatEuler(e rotation.EulerAngles, unit rotation.AngleUnit) string {
	v := e.AsVector(unit)
	lines := []string{
		KeyValue("roll", fmt.Sprintf("%+.4f %s", v[0], unit), 6),
		KeyValue("pitch", fmt.Sprintf("%+.4f %s", v[1], unit), 6),
		KeyValue("yaw", fmt.Sprintf("%+.4f %s", v[2], unit), 6),
	}
	return TitledPanel("euler angles", strings.Join(lines, "\n"))
}

func FormatMatrix(r rotation.RotationMatrix) string {
	rows := make([]string, 3)
	for i := 0; i < 3; i++ {
		rows[i] = Value.Render(fmt.Sprintf("%+.6f  %+.6f  %+.6f", r.At(i, 0), r.At(i, 1), r.At(i, 2)))
	}
	rows = append(rows, KeyValue("det", fmt.Sprintf("%.9f", r.Det()), 4))
	return TitledPanel("rotation matrix (body to inertial)", strings.Join(rows, "\n"))
}

func FormatVector(title string, x, y, z float64) string {
	return TitledPanel(title, Value.Render(fmt.Sprintf("%+.6f  %+.6f  %+.6f", x, y, z)))
}
