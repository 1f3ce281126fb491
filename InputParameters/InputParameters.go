package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"
)

// Parameters obtained from the YAML input file
type InversionParameters struct {
	Title       string      `yaml:"Title"`
	Std         float64     `yaml:"Std"`
	Eps         float64     `yaml:"Eps"`
	Scale       float64     `yaml:"Scale"`
	Formulation string      `yaml:"Formulation"`
	FieldType   string      `yaml:"FieldType"`
	TimeSteps   []float64   `yaml:"TimeSteps"`
	NData       int         `yaml:"NData"`
	NParam      int         `yaml:"NParam"`
	NoiseSeed   int64       `yaml:"NoiseSeed"`
	Sources     []SourceDef `yaml:"Sources"`
}

// SourceDef declares one transmitter of the survey.
type SourceDef struct {
	Kind        string       `yaml:"Kind"` // MagDipole, CircularLoop, LineCurrent
	Location    [3]float64   `yaml:"Location"`
	Orientation [3]float64   `yaml:"Orientation"`
	Moment      float64      `yaml:"Moment"`
	Radius      float64      `yaml:"Radius"`
	Path        [][3]float64 `yaml:"Path"`
	Waveform    string       `yaml:"Waveform"` // StepOff, Raw, Triangular
	OffTime     float64      `yaml:"OffTime"`
}

func (ip *InversionParameters) Parse(data []byte) error {
	if err := yaml.Unmarshal(data, ip); err != nil {
		return err
	}
	return ip.validate()
}

func (ip *InversionParameters) validate() error {
	switch ip.Formulation {
	case "", "EB", "HJ":
	default:
		return fmt.Errorf("unknown formulation %q, want EB or HJ", ip.Formulation)
	}
	switch ip.FieldType {
	case "", "e", "b", "h", "j":
	default:
		return fmt.Errorf("unknown field type %q, want e, b, h or j", ip.FieldType)
	}
	for i := 1; i < len(ip.TimeSteps); i++ {
		if ip.TimeSteps[i] <= ip.TimeSteps[i-1] {
			return fmt.Errorf("TimeSteps must be strictly increasing, got %v", ip.TimeSteps)
		}
	}
	if ip.NData < 0 || ip.NParam < 0 {
		return fmt.Errorf("NData and NParam must be non-negative, got (%d,%d)", ip.NData, ip.NParam)
	}
	for i, src := range ip.Sources {
		switch src.Kind {
		case "MagDipole", "CircularLoop", "LineCurrent":
		default:
			return fmt.Errorf("source %d: unknown kind %q", i, src.Kind)
		}
		switch src.Waveform {
		case "", "StepOff", "Raw", "Triangular":
		default:
			return fmt.Errorf("source %d: unknown waveform %q", i, src.Waveform)
		}
	}
	return nil
}

func (ip *InversionParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("%8.5f\t\t= Std\n", ip.Std)
	fmt.Printf("%8.5g\t\t= Eps\n", ip.Eps)
	fmt.Printf("[%s]\t\t\t= Formulation\n", ip.Formulation)
	fmt.Printf("[%s]\t\t\t= FieldType\n", ip.FieldType)
	fmt.Printf("[%d]\t\t\t\t= NData\n", ip.NData)
	fmt.Printf("[%d]\t\t\t\t= NParam\n", ip.NParam)
	for i, src := range ip.Sources {
		fmt.Printf("Sources[%d] = %v %v waveform=%s\n", i, src.Kind, src.Location, src.Waveform)
	}
}
