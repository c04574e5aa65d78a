package main

import (
	"fmt"
	"strconv"

	"github.com/golang/geo/r3"
	"github.com/spf13/cobra"

	"github.com/san-kum/attitude/internal/rotation"
	"github.com/san-kum/attitude/internal/viz"
)

func parseFloats(args []string) ([]float64, error) {
	out := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		out[i] = v
	}
	return out, nil
}

func angleUnit() rotation.AngleUnit {
	if degrees {
		return rotation.Degrees
	}
	return rotation.Radians
}

func convertRotation(cmd *cobra.Command, args []string) error {
	vals, err := parseFloats(args[1:])
	if err != nil {
		return err
	}
	unit := angleUnit()

	var q rotation.UnitQuaternion
	switch args[0] {
	case "euler":
		e, err := rotation.NewEulerAngles(vals)
		if err != nil {
			return err
		}
		e = rotation.EulerFromAngles(e.Roll(), e.Pitch(), e.Yaw(), unit)
		q = rotation.QuaternionFromEuler(e)
	case "quat":
		if q, err = rotation.NewUnitQuaternion(vals); err != nil {
			return err
		}
	case "matrix":
		r, err := rotation.RotationMatrixFromVector(vals)
		if err != nil {
			return err
		}
		if q, err = rotation.QuaternionFromRotationMatrix(r); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown representation %q (euler, quat, matrix)", args[0])
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, viz.FormatEuler(q.AsEuler(), unit))
	fmt.Fprintln(out, viz.FormatQuaternion(q))
	fmt.Fprintln(out, viz.FormatMatrix(q.RBI()))
	return nil
}

func rotateVector(cmd *cobra.Command, args []string) error {
	vals, err := parseFloats(args)
	if err != nil {
		return err
	}
	q, err := rotation.NewUnitQuaternion(vals[:4])
	if err != nil {
		return err
	}
	res, err := q.Compose(vals[4:])
	if err != nil {
		return err
	}
	v := res.(r3.Vector)
	fmt.Fprintln(cmd.OutOrStdout(), viz.FormatVector("rotated vector", v.X, v.Y, v.Z))
	return nil
}

func composeQuaternions(cmd *cobra.Command, args []string) error {
	vals, err := parseFloats(args)
	if err != nil {
		return err
	}
	q1, err := rotation.NewUnitQuaternion(vals[:4])
	if err != nil {
		return err
	}
	q2, err := rotation.NewUnitQuaternion(vals[4:])
	if err != nil {
		return err
	}
	res, err := q1.Compose(q2)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), viz.FormatQuaternion(res.(rotation.UnitQuaternion)))
	return nil
}

func yawFrame(cmd *cobra.Command, args []string) error {
	vals, err := parseFloats(args)
	if err != nil {
		return err
	}
	yawRad := rotation.EulerFromAngles(0, 0, vals[0], angleUnit()).Yaw()

	var z []float64
	if len(vals) == 4 {
		z = vals[1:]
	}
	r, err := rotation.RotationMatrixFromYawAndZ(yawRad, z)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), viz.FormatMatrix(r))
	return nil
}
