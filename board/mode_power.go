//go:build mode_power

package board

const Mode = ModePowerEnergy
