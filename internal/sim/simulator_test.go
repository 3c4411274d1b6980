package sim_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/chutesim/internal/chute"
	"github.com/san-kum/chutesim/internal/sim"
)

func scenarioA() chute.Config {
	return chute.Config{
		Global: chute.GlobalParams{
			InitialAltitude: 3000,
			InitialVelocity: 50,
			TimeStep:        0.1,
			DescentAngle:    0,
		},
		Phases: map[chute.Phase]chute.PhaseParams{
			chute.Main: {Diameter: 20, DragCoefficient: 1.5, DeploymentAltitude: 1000, InflationIndex: 5, PayloadMass: 100, ReefingFactor: 0.3},
		},
		Order: []chute.Phase{chute.Main},
	}
}

func scenarioB() chute.Config {
	cfg := scenarioA()
	cfg.Phases[chute.Drogue] = chute.PhaseParams{Diameter: 4, DragCoefficient: 1.2, DeploymentAltitude: 2000, InflationIndex: 6, PayloadMass: 100, ReefingFactor: 0.3}
	main := cfg.Phases[chute.Main]
	main.DeploymentAltitude = 500
	cfg.Phases[chute.Main] = main
	cfg.Order = []chute.Phase{chute.Drogue, chute.Main}
	return cfg
}

func firstNonZero(xs []float64) int {
	for i, x := range xs {
		if x != 0 {
			return i
		}
	}
	return -1
}

type recorder struct {
	steps       int
	deployments []sim.Deployment
}

func (r *recorder) OnStep(s sim.Snapshot)     { r.steps++ }
func (r *recorder) OnDeploy(d sim.Deployment) { r.deployments = append(r.deployments, d) }

// stepCount is a Metric that counts observed snapshots.
type stepCount struct{ n int }

func (c *stepCount) Name() string         { return "step_count" }
func (c *stepCount) Observe(sim.Snapshot) { c.n++ }
func (c *stepCount) Value() float64       { return float64(c.n) }
func (c *stepCount) Reset()               { c.n = 0 }

var _ = Describe("Simulator", func() {
	Describe("scenario A: single main canopy", func() {
		var res *sim.Result

		BeforeEach(func() {
			var err error
			res, err = sim.Simulate(scenarioA())
			Expect(err).NotTo(HaveOccurred())
		})

		It("lands well below the initial velocity", func() {
			Expect(res.Outcome).To(Equal(sim.OutcomeLanded))
			Expect(res.Err()).To(Succeed())
			Expect(res.Summary.LandingVelocity).To(BeNumerically("<", 10))
			Expect(res.Summary.FinalAltitude).To(BeNumerically("~", 0, 1e-9))
		})

		It("finishes far below the flight time ceiling", func() {
			Expect(res.Summary.FlightTime).To(BeNumerically(">", 0))
			Expect(res.Summary.FlightTime).To(BeNumerically("<", 2000))
			Expect(res.Steps).To(Equal(res.Series.Len()))
		})

		It("never gains altitude", func() {
			alt := res.Series.Altitude
			for i := 1; i < len(alt); i++ {
				Expect(alt[i]).To(BeNumerically("<=", alt[i-1]), "step %d", i)
			}
		})

		It("keeps velocity non-negative", func() {
			for _, v := range res.Series.Velocity {
				Expect(v).To(BeNumerically(">=", 0))
			}
		})

		It("deploys the main canopy once, at its threshold", func() {
			Expect(res.Deployments).To(HaveLen(1))
			d := res.Deployments[0]
			Expect(d.Phase).To(Equal(chute.Main))
			Expect(d.Altitude).To(BeNumerically("<=", 1000))
			Expect(d.InflationDuration).To(BeNumerically(">=", 0.1))

			drag := res.Series.PhaseSeries(chute.Main)
			for i, t := range res.Series.Time {
				if t < d.Time {
					Expect(drag[i]).To(BeZero(), "drag before deployment at t=%.1f", t)
				}
			}
			Expect(res.Summary.Phases[0].DeploymentTime).To(Equal(d.Time))
			Expect(res.Summary.Phases[0].InflationDuration).To(Equal(d.InflationDuration))
		})

		It("keeps every series aligned", func() {
			n := res.Series.Len()
			for key, col := range res.Series.Series() {
				Expect(col).To(HaveLen(n), key)
			}
		})
	})

	Describe("scenario B: drogue then main", func() {
		It("shows drogue drag strictly before main drag", func() {
			res, err := sim.Simulate(scenarioB())
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Landed()).To(BeTrue())

			drogue := firstNonZero(res.Series.PhaseSeries(chute.Drogue))
			main := firstNonZero(res.Series.PhaseSeries(chute.Main))
			Expect(drogue).To(BeNumerically(">=", 0))
			Expect(main).To(BeNumerically(">", drogue))

			Expect(res.Deployments).To(HaveLen(2))
			Expect(res.Deployments[0].Phase).To(Equal(chute.Drogue))
			Expect(res.Deployments[1].Phase).To(Equal(chute.Main))
		})

		It("sums phase drag into the total", func() {
			res, err := sim.Simulate(scenarioB())
			Expect(err).NotTo(HaveOccurred())

			drogue := res.Series.PhaseSeries(chute.Drogue)
			main := res.Series.PhaseSeries(chute.Main)
			for i, total := range res.Series.TotalDrag {
				Expect(total).To(BeNumerically("~", drogue[i]+main[i], 1e-9))
			}
		})
	})

	Describe("simultaneous deployment", func() {
		It("opens every phase whose threshold is already crossed", func() {
			cfg := scenarioB()
			for _, p := range cfg.Order {
				params := cfg.Phases[p]
				params.DeploymentAltitude = 5000
				cfg.Phases[p] = params
			}

			res := sim.New(cfg).Run()
			Expect(res.Deployments).To(HaveLen(2))
			Expect(res.Deployments[0].Time).To(BeZero())
			Expect(res.Deployments[1].Time).To(BeZero())
			Expect(res.Series.PhaseSeries(chute.Drogue)[0]).To(BeNumerically(">", 0))
			Expect(res.Series.PhaseSeries(chute.Main)[0]).To(BeNumerically(">", 0))
		})
	})

	Describe("payload mass", func() {
		It("uses the first configured phase until something deploys, then the earliest deployed phase", func() {
			cfg := scenarioB()
			drogue := cfg.Phases[chute.Drogue]
			drogue.PayloadMass = 50
			cfg.Phases[chute.Drogue] = drogue
			cfg.Order = []chute.Phase{chute.Main, chute.Drogue}

			res := sim.New(cfg).Run()
			Expect(res.Series.Mass[0]).To(Equal(100.0))
			Expect(res.Series.Mass[res.Series.Len()-1]).To(Equal(50.0))
		})
	})

	Describe("degenerate run", func() {
		It("returns the initial state when starting on the ground", func() {
			cfg := scenarioA()
			cfg.Global.InitialAltitude = 0

			res := sim.New(cfg).Run()
			Expect(res.Outcome).To(Equal(sim.OutcomeLanded))
			Expect(res.Series.Len()).To(BeNumerically("<=", 1))
			Expect(res.Summary.LandingVelocity).To(Equal(50.0))
			Expect(res.Summary.FlightTime).To(BeZero())
			Expect(res.Summary.MaxTotalDrag).To(BeZero())
		})
	})

	Describe("flight time ceiling", func() {
		It("reports a run that never descends as did-not-land", func() {
			cfg := scenarioA()
			cfg.Global.InitialAltitude = 100
			cfg.Global.InitialVelocity = 0
			cfg.Global.DescentAngle = 90
			cfg.Global.TimeStep = 1

			res, err := sim.Simulate(cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Outcome).To(Equal(sim.OutcomeCeiling))
			Expect(res.Landed()).To(BeFalse())
			Expect(errors.Is(res.Err(), sim.ErrDidNotLand)).To(BeTrue())
			Expect(res.Summary.FlightTime).To(BeNumerically("~", sim.MaxFlightTime, 1e-6))
			Expect(res.Summary.FinalAltitude).To(BeNumerically(">", 99))
		})
	})

	Describe("invalid input", func() {
		It("rejects without running", func() {
			cfg := scenarioA()
			cfg.Global.TimeStep = 0

			res, err := sim.Simulate(cfg)
			Expect(err).To(MatchError(chute.ErrInvalidConfig))
			Expect(res.Outcome).To(Equal(sim.OutcomeRejected))
			Expect(res.Series).To(BeNil())
		})

		It("passes validation warnings through", func() {
			cfg := scenarioB()
			main := cfg.Phases[chute.Main]
			main.DeploymentAltitude = 2500
			cfg.Phases[chute.Main] = main

			res, err := sim.Simulate(cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Warnings).To(ContainElement(ContainSubstring("typical sequence")))
		})
	})

	Describe("observers", func() {
		It("sees every step and every deployment", func() {
			rec := &recorder{}
			res, err := sim.Simulate(scenarioB(), sim.WithObservers(rec))
			Expect(err).NotTo(HaveOccurred())
			Expect(rec.steps).To(Equal(res.Series.Len()))
			Expect(rec.deployments).To(Equal(res.Deployments))
		})
	})

	Describe("observers added after construction", func() {
		It("runs metrics and observers registered with AddMetric and AddObserver", func() {
			rec := &recorder{}
			count := &stepCount{n: 7}

			s := sim.New(scenarioB())
			s.AddMetric(count)
			s.AddObserver(rec)
			res := s.Run()

			Expect(res.Metrics).To(HaveKeyWithValue("step_count", float64(res.Steps)))
			Expect(rec.steps).To(Equal(res.Steps))
			Expect(rec.deployments).To(HaveLen(2))
		})
	})

	Describe("without history", func() {
		It("keeps no series but reports the same summary", func() {
			full, err := sim.Simulate(scenarioB())
			Expect(err).NotTo(HaveOccurred())

			rec := &recorder{}
			lean, err := sim.Simulate(scenarioB(), sim.WithoutHistory(), sim.WithObservers(rec))
			Expect(err).NotTo(HaveOccurred())

			Expect(lean.Series.Len()).To(BeZero())
			Expect(lean.Steps).To(Equal(full.Steps))
			Expect(rec.steps).To(Equal(full.Steps))
			Expect(lean.Outcome).To(Equal(full.Outcome))
			Expect(lean.Summary).To(Equal(full.Summary))
			Expect(lean.Summary).To(Equal(sim.Summarize(full.Series, full.Deployments)))
		})

		It("still fills the initial state for a degenerate run", func() {
			cfg := scenarioA()
			cfg.Global.InitialAltitude = 0

			res := sim.New(cfg, sim.WithoutHistory()).Run()
			Expect(res.Summary.LandingVelocity).To(Equal(50.0))
			Expect(res.Summary.FlightTime).To(BeZero())
		})
	})

	Describe("sample bound", func() {
		It("counts one snapshot per step up to the ceiling", func() {
			Expect(sim.MaxSamples(1)).To(Equal(sim.MaxFlightTime + 1))
			Expect(sim.MaxSamples(0.1)).To(BeNumerically("~", 100001, 1))
			Expect(sim.MaxSamples(1e-6)).To(BeNumerically(">", 1e9))
		})
	})

	Describe("horizontal motion", func() {
		It("drifts only with a non-zero descent angle", func() {
			res, err := sim.Simulate(scenarioA())
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Summary.HorizontalRange).To(BeZero())

			cfg := scenarioA()
			cfg.Global.DescentAngle = 30
			angled, err := sim.Simulate(cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(angled.Summary.HorizontalRange).To(BeNumerically(">", 0))
			Expect(angled.Summary.FlightTime).To(BeNumerically(">", res.Summary.FlightTime))
			Expect(math.IsNaN(angled.Summary.LandingVelocity)).To(BeFalse())
		})
	})
})
