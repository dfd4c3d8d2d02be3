// Package agents define os agentes de voos, hotéis e matemática e o
// supervisor que delega para eles.
package agents

import (
	"fmt"

	"google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/model"
	"google.golang.org/adk/tool"

	"github.com/vitormoschetta/travel-supervisor/internal/tools"
)

const (
	SupervisorName  = "supervisor"
	FlightAgentName = "flight_assistant"
	HotelAgentName  = "hotel_assistant"
	MathsAgentName  = "maths_agent"
)

const handBack = " When you have finished your part of the task, transfer back to the supervisor."

const (
	flightInstruction = "You are a helpful flight assistant specialized in flight bookings and flight searches. " +
		"You can search for available flights and book them." + handBack
	hotelInstruction = "You are a helpful hotel assistant specialized in hotel bookings and hotel searches. " +
		"You can search for available hotels and book them." + handBack
	mathsInstruction = "You are a helpful math assistant." + handBack

	supervisorInstruction = "You are a helpful assistant and a supervisor that coordinates multiple agents to solve complex problems. " +
		"When users ask for cheapest travel combinations: " +
		"1) Use flight_assistant to get all flight options, " +
		"2) Use hotel_assistant to get all hotel options, " +
		"3) Use maths_agent to calculate and compare total prices for matching destinations, " +
		"4) Present the cheapest combination to the user, " +
		"5) If user confirms booking, use flight_assistant and hotel_assistant to book the specific options. " +
		"You can remember information between steps and coordinate the agents to work together."
)

func NewFlightAgent(m model.LLM, reg *tools.Registry) (agent.Agent, error) {
	return newSpecialist(m, reg, FlightAgentName,
		"Searches and books flights.", flightInstruction, tools.FlightTools)
}

func NewHotelAgent(m model.LLM, reg *tools.Registry) (agent.Agent, error) {
	return newSpecialist(m, reg, HotelAgentName,
		"Searches and books hotels.", hotelInstruction, tools.HotelTools)
}

func NewMathsAgent(m model.LLM, reg *tools.Registry) (agent.Agent, error) {
	return newSpecialist(m, reg, MathsAgentName,
		"Adds, subtracts, multiplies and divides numbers.", mathsInstruction, tools.MathTools)
}

func newSpecialist(m model.LLM, reg *tools.Registry, name, description, instruction string, toolNames []string) (agent.Agent, error) {
	fts, err := reg.ADKTools(toolNames...)
	if err != nil {
		return nil, err
	}

	a, err := llmagent.New(llmagent.Config{
		Name:        name,
		Model:       m,
		Description: description,
		Instruction: instruction,
		Tools:       fts,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create agent %s: %w", name, err)
	}
	return a, nil
}

// NewSupervisor cria os três especialistas e o supervisor sobre eles.
// Toolsets extras, como um servidor MCP remoto, são anexados apenas ao
// supervisor.
func NewSupervisor(m model.LLM, reg *tools.Registry, toolsets ...tool.Toolset) (agent.Agent, error) {
	maths, err := NewMathsAgent(m, reg)
	if err != nil {
		return nil, err
	}
	flight, err := NewFlightAgent(m, reg)
	if err != nil {
		return nil, err
	}
	hotel, err := NewHotelAgent(m, reg)
	if err != nil {
		return nil, err
	}

	a, err := llmagent.New(llmagent.Config{
		Name:        SupervisorName,
		Model:       m,
		Description: "Coordinates the flight, hotel and math agents.",
		Instruction: supervisorInstruction,
		SubAgents:   []agent.Agent{maths, flight, hotel},
		Toolsets:    toolsets,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create agent %s: %w", SupervisorName, err)
	}
	return a, nil
}
